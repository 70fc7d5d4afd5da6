// Package testutil assembles synthetic containers for tests. Fixtures are
// built byte-by-byte with the format package's Put helpers so both
// encodings can be produced from the same description.
package testutil

import (
	"bytes"

	"github.com/klauspost/compress/zlib"

	"github.com/esmtools/esmdiff/internal/format"
)

// Sub encodes one subrecord: signature, uint16 size, data.
func Sub(big bool, sig string, data []byte) []byte {
	b := make([]byte, format.SubrecordHeaderSize+len(data))
	format.PutSignature(b, 0, sig, big)
	format.PutU16(b, format.SubrecordSizeOffset, uint16(len(data)), big)
	copy(b[format.SubrecordHeaderSize:], data)
	return b
}

// Subs concatenates subrecords into one payload.
func Subs(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// Leaf encodes a non-group record: 24-byte header plus payload. The size
// field is the payload length excluding the header.
func Leaf(big bool, sig string, formID, flags uint32, payload []byte) []byte {
	b := make([]byte, format.RecordHeaderSize+len(payload))
	format.PutSignature(b, format.SignatureOffset, sig, big)
	format.PutU32(b, format.SizeOffset, uint32(len(payload)), big)
	format.PutU32(b, format.FlagsOffset, flags, big)
	format.PutU32(b, format.FormIDOffset, formID, big)
	copy(b[format.RecordHeaderSize:], payload)
	return b
}

// Group encodes a group record around its children. The size field is the
// whole subtree span including the 24-byte header. The label is written as
// a 4-character tag (top-level grouping).
func Group(big bool, labelTag string, groupType int32, children ...[]byte) []byte {
	body := bytes.Join(children, nil)
	b := make([]byte, format.RecordHeaderSize+len(body))
	format.PutSignature(b, format.SignatureOffset, "GRUP", big)
	format.PutU32(b, format.SizeOffset, uint32(len(b)), big)
	format.PutSignature(b, format.GroupLabelOffset, labelTag, big)
	format.PutU32(b, format.GroupTypeOffset, uint32(groupType), big)
	copy(b[format.RecordHeaderSize:], body)
	return b
}

// GroupID is Group with a numeric label (FormID- or coordinate-keyed
// grouping strategies).
func GroupID(big bool, label uint32, groupType int32, children ...[]byte) []byte {
	body := bytes.Join(children, nil)
	b := make([]byte, format.RecordHeaderSize+len(body))
	format.PutSignature(b, format.SignatureOffset, "GRUP", big)
	format.PutU32(b, format.SizeOffset, uint32(len(b)), big)
	format.PutU32(b, format.GroupLabelOffset, label, big)
	format.PutU32(b, format.GroupTypeOffset, uint32(groupType), big)
	copy(b[format.RecordHeaderSize:], body)
	return b
}

// FileHeader encodes the leading header record with a 12-byte format-info
// subrecord.
func FileHeader(big bool, version float32, recordCount, nextObjectID uint32) []byte {
	info := make([]byte, format.FormatInfoSize)
	format.PutF32(info, format.FormatInfoVersionOffset, version, big)
	format.PutU32(info, format.FormatInfoCountOffset, recordCount, big)
	format.PutU32(info, format.FormatInfoNextIDOffset, nextObjectID, big)
	return Leaf(big, "TES4", 0, format.FlagMaster, Sub(big, "HEDR", info))
}

// Container assembles a whole buffer: file-header record followed by the
// given records.
func Container(big bool, records ...[]byte) []byte {
	parts := append([][]byte{FileHeader(big, 1.0, uint32(len(records)), 0x800)}, records...)
	return bytes.Join(parts, nil)
}

// Compress produces a compressed payload: uint32 decompressed length
// followed by a zlib stream. Pair it with format.FlagCompressed on the
// record.
func Compress(big bool, payload []byte) []byte {
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(payload); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	b := make([]byte, format.CompressedPrefixSize+zbuf.Len())
	format.PutU32(b, 0, uint32(len(payload)), big)
	copy(b[format.CompressedPrefixSize:], zbuf.Bytes())
	return b
}
