package esm

import "fmt"

// WarningKind classifies a recoverable problem found during a scan.
type WarningKind int

const (
	// WarnStructuralCorruption covers declared sizes overrunning the buffer,
	// group nesting past the depth cap, and stray trailing bytes.
	WarnStructuralCorruption WarningKind = iota

	// WarnDecompressionFailure covers corrupt compressed payloads and
	// implausible declared decompressed sizes.
	WarnDecompressionFailure

	// WarnUnknownEndianness means the leading signature matched neither
	// orientation and little-endian was assumed.
	WarnUnknownEndianness
)

func (k WarningKind) String() string {
	switch k {
	case WarnStructuralCorruption:
		return "structural corruption"
	case WarnDecompressionFailure:
		return "decompression failure"
	case WarnUnknownEndianness:
		return "unknown endianness"
	default:
		return fmt.Sprintf("warning kind %d", int(k))
	}
}

// Warning records a recoverable problem at a byte offset. The scan keeps
// going after every warning; none of them abort parsing.
type Warning struct {
	Offset int
	Kind   WarningKind
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("0x%X: %s: %s", w.Offset, w.Kind, w.Detail)
}
