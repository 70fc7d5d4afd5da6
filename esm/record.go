package esm

import (
	"fmt"

	"github.com/esmtools/esmdiff/internal/buf"
	"github.com/esmtools/esmdiff/internal/format"
)

// RecordHeader holds the decoded 24-byte header shared by leaf records and
// groups. For leaf records Size is the payload length excluding the header;
// for groups Size is the span of the header plus all nested content. The two
// semantics are never interchangeable; every offset computation downstream
// depends on the distinction.
type RecordHeader struct {
	Signature string
	Size      uint32
	Flags     uint32
	FormID    uint32
	Revision  uint32
	Version   uint16
}

// IsMaster reports whether the master/top-level flag is set.
func (h RecordHeader) IsMaster() bool { return h.Flags&format.FlagMaster != 0 }

// IsCompressed reports whether the compressed-payload flag is set.
func (h RecordHeader) IsCompressed() bool { return h.Flags&format.FlagCompressed != 0 }

// GroupType selects the grouping strategy a group applies to its children.
type GroupType int32

const (
	GroupTopLevel       GroupType = format.GroupTopLevel
	GroupWorldChildren  GroupType = format.GroupWorldChildren
	GroupInteriorBlock  GroupType = format.GroupInteriorBlock
	GroupInteriorSub    GroupType = format.GroupInteriorSub
	GroupExteriorBlock  GroupType = format.GroupExteriorBlock
	GroupExteriorSub    GroupType = format.GroupExteriorSub
	GroupCellChildren   GroupType = format.GroupCellChildren
	GroupTopicChildren  GroupType = format.GroupTopicChildren
	GroupCellPersistent GroupType = format.GroupCellPersistent
	GroupCellTemporary  GroupType = format.GroupCellTemporary
	GroupCellDistant    GroupType = format.GroupCellDistant
)

func (t GroupType) String() string {
	switch t {
	case GroupTopLevel:
		return "top-level"
	case GroupWorldChildren:
		return "world children"
	case GroupInteriorBlock:
		return "interior block"
	case GroupInteriorSub:
		return "interior sub-block"
	case GroupExteriorBlock:
		return "exterior block"
	case GroupExteriorSub:
		return "exterior sub-block"
	case GroupCellChildren:
		return "cell children"
	case GroupTopicChildren:
		return "topic children"
	case GroupCellPersistent:
		return "cell persistent"
	case GroupCellTemporary:
		return "cell temporary"
	case GroupCellDistant:
		return "cell distant"
	default:
		return fmt.Sprintf("group type %d", int32(t))
	}
}

// Record is one scanned record or group. Immutable after the scan; offsets
// and sizes are absolute within the scanned buffer.
type Record struct {
	Header RecordHeader

	// Offset is the absolute byte offset of the record header.
	Offset int

	// TotalSize is the full byte span of the record within the buffer:
	// header plus payload for leaves, the declared subtree span for groups.
	// A span clamped by buffer truncation is reflected here, not in Header.
	TotalSize int

	IsGroup bool

	// Label is the endian-resolved 4-byte grouping label (groups only). Its
	// meaning depends on GroupType: a FormID, a block number, or a packed
	// coordinate pair.
	Label uint32

	// LabelTag is the label slot read as a 4-character signature, meaningful
	// for top-level groups where the label names the contained record type.
	LabelTag string

	GroupType GroupType
}

// PayloadOffset returns the absolute offset of the record's payload (for
// groups, the first child header).
func (r Record) PayloadOffset() int { return r.Offset + format.RecordHeaderSize }

// Contains reports whether the absolute offset falls inside the record's span.
func (r Record) Contains(off int) bool {
	return off >= r.Offset && off < r.Offset+r.TotalSize
}

// parseRecordAt decodes the record header at off. The returned TotalSize is
// the declared span, unclamped; the scanner validates it against the
// enclosing range.
func parseRecordAt(data []byte, off int, bigEndian bool) (Record, error) {
	if !buf.Has(data, off, format.RecordHeaderSize) {
		return Record{}, fmt.Errorf("record at 0x%X: %w", off, format.ErrTruncated)
	}
	sig := format.ReadSignature(data, off+format.SignatureOffset, bigEndian)
	rec := Record{
		Header: RecordHeader{
			Signature: sig,
			Size:      format.ReadU32(data, off+format.SizeOffset, bigEndian),
			Flags:     format.ReadU32(data, off+format.FlagsOffset, bigEndian),
			FormID:    format.ReadU32(data, off+format.FormIDOffset, bigEndian),
			Revision:  format.ReadU32(data, off+format.RevisionOffset, bigEndian),
			Version:   format.ReadU16(data, off+format.VersionOffset, bigEndian),
		},
		Offset: off,
	}
	if sig == string(format.GroupSignature) {
		rec.IsGroup = true
		rec.Label = format.ReadU32(data, off+format.GroupLabelOffset, bigEndian)
		rec.LabelTag = format.ReadSignature(data, off+format.GroupLabelOffset, bigEndian)
		rec.GroupType = GroupType(format.ReadI32(data, off+format.GroupTypeOffset, bigEndian))
		// Group size spans header plus all nested content.
		rec.TotalSize = int(rec.Header.Size)
	} else {
		// Leaf size is the payload only.
		rec.TotalSize = format.RecordHeaderSize + int(rec.Header.Size)
	}
	return rec, nil
}
