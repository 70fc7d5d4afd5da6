package esm

import (
	"fmt"

	"github.com/esmtools/esmdiff/internal/format"
)

// Crumb is one level of group nesting on the way down to a located record.
type Crumb struct {
	Label uint32
	Tag   string
	Type  GroupType
}

// String renders the crumb distinctly per grouping strategy: top-level
// groups show the contained record type, FormID-keyed groups show the
// identifier, spatial groups show block coordinates.
func (c Crumb) String() string {
	switch c.Type {
	case GroupTopLevel:
		return fmt.Sprintf("type %s", c.Tag)
	case GroupWorldChildren:
		return fmt.Sprintf("world 0x%08X", c.Label)
	case GroupInteriorBlock:
		return fmt.Sprintf("interior block %d", int32(c.Label))
	case GroupInteriorSub:
		return fmt.Sprintf("interior sub-block %d", int32(c.Label))
	case GroupExteriorBlock:
		return fmt.Sprintf("exterior block (%d, %d)", int16(c.Label&0xFFFF), int16(c.Label>>16))
	case GroupExteriorSub:
		return fmt.Sprintf("exterior sub-block (%d, %d)", int16(c.Label&0xFFFF), int16(c.Label>>16))
	case GroupCellChildren:
		return fmt.Sprintf("cell 0x%08X", c.Label)
	case GroupTopicChildren:
		return fmt.Sprintf("topic 0x%08X", c.Label)
	case GroupCellPersistent:
		return fmt.Sprintf("cell 0x%08X persistent", c.Label)
	case GroupCellTemporary:
		return fmt.Sprintf("cell 0x%08X temporary", c.Label)
	case GroupCellDistant:
		return fmt.Sprintf("cell 0x%08X distant", c.Label)
	default:
		return fmt.Sprintf("%s 0x%08X", c.Type, c.Label)
	}
}

// Location is the answer to an offset query: the enclosing record, the
// enclosing subrecord when one could be resolved, and the full group-nesting
// breadcrumb from the outermost group inward.
type Location struct {
	Record     *Record
	Subrecord  *Subrecord
	Breadcrumb []Crumb

	// InCompressed is set when the offset falls inside a compressed payload
	// that could not be decompressed. The compressed and decompressed offset
	// spaces are not 1:1, so no subrecord answer is possible; reporting one
	// would be wrong, not merely imprecise.
	InCompressed bool
}

// Locate finds the record and subrecord enclosing target within the sibling
// range [lo, hi). The descent mirrors the scanner's nesting walk but uses an
// explicit bounded loop: nesting beyond the depth cap is structural
// corruption (ErrDepthExceeded), never a stack fault. A target contained in
// no record yields ErrNotFound.
func Locate(data []byte, bigEndian bool, lo, hi, target int) (*Location, error) {
	if hi > len(data) {
		hi = len(data)
	}
	if lo < 0 || lo >= hi {
		return nil, fmt.Errorf("locate: empty range [0x%X, 0x%X): %w", lo, hi, format.ErrTruncated)
	}
	if target < lo || target >= hi {
		return nil, fmt.Errorf("locate: offset 0x%X outside [0x%X, 0x%X): %w", target, lo, hi, ErrNotFound)
	}

	loc := &Location{}
	for depth := 0; ; depth++ {
		if depth >= format.MaxGroupDepth {
			return nil, fmt.Errorf("locate: offset 0x%X nested beyond %d groups: %w",
				target, format.MaxGroupDepth, format.ErrDepthExceeded)
		}
		rec, ok := findSibling(data, bigEndian, lo, hi, target)
		if !ok {
			return nil, fmt.Errorf("locate: offset 0x%X not inside any record: %w", target, ErrNotFound)
		}
		if !rec.IsGroup {
			loc.Record = &rec
			resolveSubrecord(data, bigEndian, loc, target)
			return loc, nil
		}
		loc.Breadcrumb = append(loc.Breadcrumb, Crumb{Label: rec.Label, Tag: rec.LabelTag, Type: rec.GroupType})
		if target < rec.PayloadOffset() {
			// Inside the group's own header; the group is the answer.
			loc.Record = &rec
			return loc, nil
		}
		lo, hi = rec.PayloadOffset(), rec.Offset+rec.TotalSize
	}
}

// findSibling walks the sibling records of [lo, hi) and returns the one
// whose span contains target. Overrunning spans are clamped the same way
// the scanner clamps them, keeping both walks consistent.
func findSibling(data []byte, bigEndian bool, lo, hi, target int) (Record, bool) {
	cursor := lo
	for cursor+format.RecordHeaderSize <= hi {
		rec, err := parseRecordAt(data, cursor, bigEndian)
		if err != nil {
			return Record{}, false
		}
		if rec.IsGroup && rec.TotalSize < format.RecordHeaderSize {
			return Record{}, false
		}
		if end := rec.Offset + rec.TotalSize; end > hi {
			rec.TotalSize = hi - rec.Offset
		}
		if rec.Contains(target) {
			return rec, true
		}
		cursor = rec.Offset + rec.TotalSize
	}
	return Record{}, false
}

// resolveSubrecord fills in the subrecord containing target within a leaf
// record. For compressed payloads the lookup runs on decompressed offsets
// relative to the payload start; when decompression is unavailable the
// location is marked InCompressed instead of guessing.
func resolveSubrecord(data []byte, bigEndian bool, loc *Location, target int) {
	rec := loc.Record
	rel := target - rec.PayloadOffset()
	if rel < 0 {
		// Inside the record header; no subrecord to name.
		return
	}
	payload, ok := RecordData(data, *rec, bigEndian)
	if !ok {
		if rec.Header.IsCompressed() {
			loc.InCompressed = true
		}
		return
	}
	subs := ParseSubrecords(payload, bigEndian)
	// Linear scan; subrecord counts per record are small.
	for i := range subs {
		s := &subs[i]
		if rel >= s.HeaderOffset && rel < s.DataOffset+len(s.Data) {
			loc.Subrecord = s
			return
		}
	}
}
