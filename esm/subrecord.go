package esm

import (
	"github.com/esmtools/esmdiff/internal/format"
)

// Subrecord is one tagged, length-prefixed field group inside a record's
// payload. Offsets are relative to the payload start. Data aliases the
// payload buffer; nothing is copied.
type Subrecord struct {
	Signature    string
	HeaderOffset int
	DataOffset   int
	Data         []byte
}

// ParseSubrecords splits a record's (decompressed) payload into its ordered
// subrecord list. Subrecords are densely packed: a 4-byte signature, a
// uint16 data size, then that many bytes, with no padding between entries.
//
// Duplicate signatures are legitimate repetition (multiple effect entries,
// for example) and are preserved in original order. A truncated trailing
// header or short data run ends the parse cleanly; everything decoded up to
// that point is returned.
func ParseSubrecords(payload []byte, bigEndian bool) []Subrecord {
	var subs []Subrecord
	cursor := 0
	for cursor+format.SubrecordHeaderSize <= len(payload) {
		size := int(format.ReadU16(payload, cursor+format.SubrecordSizeOffset, bigEndian))
		dataOff := cursor + format.SubrecordHeaderSize
		if dataOff+size > len(payload) {
			break
		}
		subs = append(subs, Subrecord{
			Signature:    format.ReadSignature(payload, cursor, bigEndian),
			HeaderOffset: cursor,
			DataOffset:   dataOff,
			Data:         payload[dataOff : dataOff+size],
		})
		cursor = dataOff + size
	}
	return subs
}

// FindSubrecord returns the index-th subrecord with the given signature, or
// nil. Index counts duplicates in order of appearance.
func FindSubrecord(subs []Subrecord, signature string, index int) *Subrecord {
	seen := 0
	for i := range subs {
		if subs[i].Signature == signature {
			if seen == index {
				return &subs[i]
			}
			seen++
		}
	}
	return nil
}
