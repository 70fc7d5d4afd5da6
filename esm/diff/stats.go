package diff

import "sort"

// SignatureStats aggregates subrecord outcomes for one signature across a
// whole comparison run. Increments are commutative, so the totals are
// independent of the order pairs were processed.
type SignatureStats struct {
	Signature      string
	Identical      int
	SizeDiffers    int
	ContentDiffers int
	MissingInA     int
	MissingInB     int

	// EndianSwapped counts the ContentDiffers outcomes fully explained by a
	// byte-order swap.
	EndianSwapped int
}

// Total is the number of subrecord pairs observed for this signature.
func (s *SignatureStats) Total() int {
	return s.Identical + s.SizeDiffers + s.ContentDiffers + s.MissingInA + s.MissingInB
}

func recordStat(stats map[string]*SignatureStats, sd SubrecordDiff) {
	st := stats[sd.Signature]
	if st == nil {
		st = &SignatureStats{Signature: sd.Signature}
		stats[sd.Signature] = st
	}
	switch sd.Class {
	case Identical:
		st.Identical++
	case SizeDiffers:
		st.SizeDiffers++
	case ContentDiffers:
		st.ContentDiffers++
		if sd.Pattern.Kind == PatternEndianSwap {
			st.EndianSwapped++
		}
	case MissingInA:
		st.MissingInA++
	case MissingInB:
		st.MissingInB++
	}
}

// SortedStats returns the run's per-signature statistics ordered by
// signature, for deterministic rendering.
func (r *Result) SortedStats() []*SignatureStats {
	out := make([]*SignatureStats, 0, len(r.Stats))
	for _, st := range r.Stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}

// RenderLimit applies the caller-supplied display limit to the record list.
// It truncates rendered output only; Counts and Stats always cover the
// complete set.
func (r *Result) RenderLimit(max int) []RecordDiff {
	if max <= 0 || max >= len(r.Records) {
		return r.Records
	}
	return r.Records[:max]
}
