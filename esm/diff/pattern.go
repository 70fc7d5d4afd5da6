package diff

import (
	"bytes"
	"fmt"
)

// PatternKind classifies how two equal-sized byte buffers diverge.
type PatternKind int

const (
	// PatternNone: the buffers are identical.
	PatternNone PatternKind = iota

	// PatternEndianSwap: reversing byte order of every w-byte word of A
	// reproduces B exactly. The canonical cross-encoding signature.
	PatternEndianSwap

	// PatternShift: after the first differing byte, B equals A displaced by
	// a constant offset, a local insertion or deletion.
	PatternShift

	// PatternSubstitution: bytes changed in place with no structural
	// displacement.
	PatternSubstitution
)

// Pattern is the compact result of byte-pattern classification.
type Pattern struct {
	Kind PatternKind

	// Width is the matching word width for PatternEndianSwap (2, 4, or 8).
	Width int

	// Offset is the first differing byte for PatternShift and
	// PatternSubstitution.
	Offset int

	// Shift is the displacement for PatternShift: positive for an
	// insertion in B, negative for a deletion.
	Shift int
}

// String renders the compact summary the report layers print verbatim.
func (p Pattern) String() string {
	switch p.Kind {
	case PatternNone:
		return "IDENTICAL"
	case PatternEndianSwap:
		return fmt.Sprintf("ENDIAN-SWAPPED (width %d)", p.Width)
	case PatternShift:
		return fmt.Sprintf("shifted %+d at byte %d", p.Shift, p.Offset)
	case PatternSubstitution:
		return fmt.Sprintf("differs from byte %d", p.Offset)
	default:
		return fmt.Sprintf("pattern kind %d", int(p.Kind))
	}
}

// swapWidths are tried smallest-first so the narrowest explanation wins;
// a buffer of identical byte pairs is reported at width 2, not 8.
var swapWidths = [...]int{2, 4, 8}

// maxShiftProbe bounds how far shift detection looks for a displaced match.
const maxShiftProbe = 64

// ClassifyPattern explains how a and b diverge. It must only be called with
// len(a) == len(b): pattern detection across mismatched sizes is undefined,
// and the function refuses it rather than producing nonsense.
func ClassifyPattern(a, b []byte) (Pattern, error) {
	if len(a) != len(b) {
		return Pattern{}, fmt.Errorf("diff: pattern classification undefined for sizes %d vs %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		return Pattern{Kind: PatternNone}, nil
	}
	for _, w := range swapWidths {
		if isEndianSwapped(a, b, w) {
			return Pattern{Kind: PatternEndianSwap, Width: w}, nil
		}
	}
	first := firstDiff(a, b)
	if shift, ok := detectShift(a, b, first); ok {
		return Pattern{Kind: PatternShift, Offset: first, Shift: shift}, nil
	}
	return Pattern{Kind: PatternSubstitution, Offset: first}, nil
}

// isEndianSwapped reports whether reversing every aligned w-byte word of a
// reproduces b exactly. A trailing fragment shorter than w must match as-is.
func isEndianSwapped(a, b []byte, w int) bool {
	if len(a)%w != 0 {
		// Words are aligned from offset 0; the tail fragment carries no
		// word to swap.
		tail := len(a) - len(a)%w
		if !bytes.Equal(a[tail:], b[tail:]) {
			return false
		}
		a, b = a[:tail], b[:tail]
	}
	if len(a) == 0 {
		return false
	}
	for off := 0; off < len(a); off += w {
		for i := 0; i < w; i++ {
			if a[off+i] != b[off+w-1-i] {
				return false
			}
		}
	}
	return true
}

func firstDiff(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}

// detectShift tests whether everything after the first difference is a's
// tail displaced by a constant delta, an insertion (+) or deletion (-)
// rather than in-place substitution. With equal total sizes the displaced
// comparison simply ignores the delta bytes that fell off the end.
func detectShift(a, b []byte, first int) (int, bool) {
	for delta := 1; delta <= maxShiftProbe; delta++ {
		// An empty displaced tail would vacuously match; that is a plain
		// substitution, not a shift.
		if len(a)-first-delta <= 0 {
			break
		}
		// Insertion in b: b[first+delta:] replays a[first:].
		if bytes.Equal(b[first+delta:], a[first:len(a)-delta]) {
			return delta, true
		}
		// Deletion in b: b[first:] replays a[first+delta:].
		if bytes.Equal(b[first:len(b)-delta], a[first+delta:]) {
			return -delta, true
		}
	}
	return 0, false
}
