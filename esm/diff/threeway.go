package diff

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/esmtools/esmdiff/esm"
)

// ThreeWayOutcome classifies one subrecord in a three-way comparison of a
// conversion: original source, candidate output, and reference ground truth.
// The source column is display-only: the candidate is judged against the
// reference and is never required to match the source byte-for-byte.
type ThreeWayOutcome int

const (
	// ThreeWayMatch: candidate and reference agree.
	ThreeWayMatch ThreeWayOutcome = iota

	// ThreeWayDiffers: candidate and reference are both present but differ.
	ThreeWayDiffers

	// ThreeWayDropped: present in source but absent from the candidate,
	// the conversion dropped it. Distinct from a regression even when the
	// reference still carries the subrecord.
	ThreeWayDropped

	// ThreeWayRegression: present in reference but absent from both
	// candidate and source.
	ThreeWayRegression

	// ThreeWayExtra: present in the candidate but absent from the
	// reference.
	ThreeWayExtra
)

func (o ThreeWayOutcome) String() string {
	switch o {
	case ThreeWayMatch:
		return "MATCH"
	case ThreeWayDiffers:
		return "DIFFERS"
	case ThreeWayDropped:
		return "dropped during conversion"
	case ThreeWayRegression:
		return "regression"
	case ThreeWayExtra:
		return "extra in candidate"
	default:
		return fmt.Sprintf("three-way outcome %d", int(o))
	}
}

// ThreeWaySides carries one side of a three-way comparison: its subrecords
// and the endianness they were scanned under.
type ThreeWaySides struct {
	Source    []esm.Subrecord
	Candidate []esm.Subrecord
	Reference []esm.Subrecord

	SourceBig    bool
	CandidateBig bool
	ReferenceBig bool
}

// ThreeWayDiff is one subrecord slot across the three sides, keyed by
// (signature, duplicate-index).
type ThreeWayDiff struct {
	Signature string
	Index     int
	Outcome   ThreeWayOutcome

	// Source, Candidate, and Reference are nil when the slot is absent on
	// that side.
	Source    *esm.Subrecord
	Candidate *esm.Subrecord
	Reference *esm.Subrecord

	// Pattern explains candidate-vs-reference divergence when both are
	// present with equal sizes.
	Pattern Pattern
}

// CompareThreeWay classifies every subrecord slot present on any side.
// Results are sorted by (signature, index); outcomes are independent of
// processing order.
func CompareThreeWay(sides ThreeWaySides) []ThreeWayDiff {
	type slot struct {
		sig   string
		index int
	}
	index := func(subs []esm.Subrecord) map[slot]*esm.Subrecord {
		m := make(map[slot]*esm.Subrecord, len(subs))
		dup := make(map[string]int)
		for i := range subs {
			s := &subs[i]
			key := slot{sig: s.Signature, index: dup[s.Signature]}
			dup[s.Signature]++
			m[key] = s
		}
		return m
	}
	src := index(sides.Source)
	cand := index(sides.Candidate)
	ref := index(sides.Reference)

	slots := make(map[slot]struct{})
	for k := range src {
		slots[k] = struct{}{}
	}
	for k := range cand {
		slots[k] = struct{}{}
	}
	for k := range ref {
		slots[k] = struct{}{}
	}

	out := make([]ThreeWayDiff, 0, len(slots))
	for k := range slots {
		d := ThreeWayDiff{
			Signature: k.sig,
			Index:     k.index,
			Source:    src[k],
			Candidate: cand[k],
			Reference: ref[k],
		}
		d.Outcome = classifyThreeWay(&d)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Signature != out[j].Signature {
			return out[i].Signature < out[j].Signature
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func classifyThreeWay(d *ThreeWayDiff) ThreeWayOutcome {
	switch {
	case d.Candidate == nil && d.Source != nil:
		// The conversion had this subrecord to work with and lost it,
		// dropped, whether or not the reference still carries it.
		return ThreeWayDropped
	case d.Candidate == nil && d.Reference != nil:
		// Absent from candidate and source, present in ground truth.
		return ThreeWayRegression
	case d.Candidate != nil && d.Reference == nil:
		return ThreeWayExtra
	}
	if bytes.Equal(d.Candidate.Data, d.Reference.Data) {
		return ThreeWayMatch
	}
	if len(d.Candidate.Data) == len(d.Reference.Data) {
		// The pattern explains the divergence compactly; an ENDIAN-SWAPPED
		// result usually means the conversion forgot to swap this field.
		if p, err := ClassifyPattern(d.Candidate.Data, d.Reference.Data); err == nil {
			d.Pattern = p
		}
	}
	return ThreeWayDiffers
}

// CompareRecordsThreeWay runs the three-way subrecord comparison over one
// logical record present in up to three files. Missing payloads degrade to
// empty subrecord lists.
func CompareRecordsThreeWay(source, candidate, reference *esm.File, formID uint32, signature string) []ThreeWayDiff {
	side := func(f *esm.File) ([]esm.Subrecord, bool) {
		if f == nil {
			return nil, false
		}
		rec := f.FindRecord(formID, signature, 0)
		if rec == nil {
			return nil, false
		}
		subs, ok := f.Subrecords(*rec)
		if !ok {
			return nil, false
		}
		return subs, f.BigEndian
	}
	sides := ThreeWaySides{}
	sides.Source, sides.SourceBig = side(source)
	sides.Candidate, sides.CandidateBig = side(candidate)
	sides.Reference, sides.ReferenceBig = side(reference)
	return CompareThreeWay(sides)
}
