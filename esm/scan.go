package esm

import (
	"fmt"

	"github.com/esmtools/esmdiff/internal/format"
)

// scanFrame is one level of the iterative group descent: the sibling cursor
// and the exclusive end of the enclosing range.
type scanFrame struct {
	cursor int
	end    int
}

// ScanAllRecords walks the buffer top to bottom, recursing into every group,
// and returns the flat, ordered record list (preorder: each group precedes
// its children) together with any warnings. Scanning the same buffer twice
// yields identical results.
//
// The descent uses an explicit stack with a fixed depth cap so adversarially
// deep corruption surfaces as a warning, never as a stack fault. A record
// whose declared span overruns its enclosing range is truncated and the scan
// continues rather than aborting.
//
// The only error is a buffer shorter than one record header.
func ScanAllRecords(data []byte, bigEndian bool) ([]Record, []Warning, error) {
	if len(data) < format.RecordHeaderSize {
		return nil, nil, fmt.Errorf("scan: %d bytes: %w", len(data), format.ErrBufferTooSmall)
	}
	return scanRange(data, bigEndian, 0, len(data))
}

// ScanRange enumerates the records in [lo, hi), typically a group's child
// range. Bounds outside the buffer are an error.
func ScanRange(data []byte, bigEndian bool, lo, hi int) ([]Record, []Warning, error) {
	if lo < 0 || hi > len(data) || lo > hi {
		return nil, nil, fmt.Errorf("scan: range [0x%X, 0x%X) outside buffer: %w", lo, hi, format.ErrTruncated)
	}
	return scanRange(data, bigEndian, lo, hi)
}

func scanRange(data []byte, bigEndian bool, lo, hi int) ([]Record, []Warning, error) {
	var (
		records  []Record
		warnings []Warning
	)
	stack := make([]scanFrame, 1, 16)
	stack[0] = scanFrame{cursor: lo, end: hi}

	for len(stack) > 0 {
		frame := &stack[len(stack)-1]

		if frame.cursor+format.RecordHeaderSize > frame.end {
			if left := frame.end - frame.cursor; left > 0 {
				warnings = append(warnings, Warning{
					Offset: frame.cursor,
					Kind:   WarnStructuralCorruption,
					Detail: fmt.Sprintf("%d trailing bytes, too short for a record header", left),
				})
			}
			stack = stack[:len(stack)-1]
			continue
		}

		rec, err := parseRecordAt(data, frame.cursor, bigEndian)
		if err != nil {
			// Unreachable given the header-size check above, but keep the
			// scan tolerant regardless.
			warnings = append(warnings, Warning{Offset: frame.cursor, Kind: WarnStructuralCorruption, Detail: err.Error()})
			stack = stack[:len(stack)-1]
			continue
		}

		if rec.IsGroup && rec.TotalSize < format.RecordHeaderSize {
			// A group span smaller than its own header leaves no way to find
			// the next sibling; abandon the rest of this range.
			warnings = append(warnings, Warning{
				Offset: rec.Offset,
				Kind:   WarnStructuralCorruption,
				Detail: fmt.Sprintf("group %q declares span %d, smaller than its header", rec.LabelTag, rec.TotalSize),
			})
			stack = stack[:len(stack)-1]
			continue
		}

		if end := rec.Offset + rec.TotalSize; end > frame.end {
			warnings = append(warnings, Warning{
				Offset: rec.Offset,
				Kind:   WarnStructuralCorruption,
				Detail: fmt.Sprintf("record %q span %d overruns enclosing range by %d bytes, truncated",
					rec.Header.Signature, rec.TotalSize, end-frame.end),
			})
			rec.TotalSize = frame.end - rec.Offset
		}

		frame.cursor = rec.Offset + rec.TotalSize
		records = append(records, rec)

		if rec.IsGroup {
			if len(stack) >= format.MaxGroupDepth {
				warnings = append(warnings, Warning{
					Offset: rec.Offset,
					Kind:   WarnStructuralCorruption,
					Detail: fmt.Sprintf("group nesting exceeds %d levels, children skipped", format.MaxGroupDepth),
				})
				continue
			}
			stack = append(stack, scanFrame{
				cursor: rec.PayloadOffset(),
				end:    rec.Offset + rec.TotalSize,
			})
		}
	}

	return records, warnings, nil
}
