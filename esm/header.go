package esm

import (
	"bytes"
	"fmt"

	"github.com/esmtools/esmdiff/internal/format"
)

// FileHeader is the leading header record of a container plus the 12-byte
// format-info block carried by its first HEDR-style subrecord.
type FileHeader struct {
	Record Record

	// Format info; valid only when HasInfo is set.
	HasInfo      bool
	Version      float32
	RecordCount  uint32
	NextObjectID uint32
}

// DetectEndian inspects the leading 4 bytes. The file-header signature read
// forward means little-endian; read reversed means big-endian (the console
// encoding writes signatures as byte-swapped 32-bit integers). ok is false
// when neither orientation matches, in which case callers should assume
// little-endian and record a warning.
//
// Detection runs once per buffer; the format never mixes encodings.
func DetectEndian(data []byte) (bigEndian, ok bool) {
	if len(data) < format.SignatureSize {
		return false, false
	}
	head := data[:format.SignatureSize]
	if bytes.Equal(head, format.FileSignature) {
		return false, true
	}
	reversed := []byte{head[3], head[2], head[1], head[0]}
	if bytes.Equal(reversed, format.FileSignature) {
		return true, true
	}
	return false, false
}

// ParseFileHeader decodes the header record at offset 0 and, when its
// payload is readable, the format-info block from its first HEDR subrecord.
// A wrong leading signature is reported via ErrSignatureMismatch; a missing
// or unreadable info block is not an error (HasInfo stays false).
func ParseFileHeader(data []byte, bigEndian bool) (*FileHeader, error) {
	if len(data) < format.RecordHeaderSize {
		return nil, fmt.Errorf("file header: %d bytes: %w", len(data), format.ErrBufferTooSmall)
	}
	rec, err := parseRecordAt(data, 0, bigEndian)
	if err != nil {
		return nil, err
	}
	if rec.Header.Signature != string(format.FileSignature) {
		return nil, fmt.Errorf("file header: got %q: %w", rec.Header.Signature, format.ErrSignatureMismatch)
	}
	if end := rec.Offset + rec.TotalSize; end > len(data) {
		rec.TotalSize = len(data) - rec.Offset
	}

	fh := &FileHeader{Record: rec}
	payload, ok := RecordData(data, rec, bigEndian)
	if !ok {
		return fh, nil
	}
	hedr := FindSubrecord(ParseSubrecords(payload, bigEndian), "HEDR", 0)
	if hedr == nil || len(hedr.Data) < format.FormatInfoSize {
		return fh, nil
	}
	fh.HasInfo = true
	fh.Version = format.ReadF32(hedr.Data, format.FormatInfoVersionOffset, bigEndian)
	fh.RecordCount = format.ReadU32(hedr.Data, format.FormatInfoCountOffset, bigEndian)
	fh.NextObjectID = format.ReadU32(hedr.Data, format.FormatInfoNextIDOffset, bigEndian)
	return fh, nil
}
