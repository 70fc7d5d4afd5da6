// Package diff compares two or three scans of logically identical
// containers at record, subrecord, and decoded-field granularity.
//
// Classification is commutative and order-independent: aggregated counts
// never depend on the order record pairs are processed, and swapping the
// sides of a comparison swaps only the MissingInA/MissingInB outcomes.
package diff

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/esmtools/esmdiff/esm"
	"github.com/esmtools/esmdiff/esm/schema"
)

// Classification is the diff state of a record or subrecord pair.
type Classification int

const (
	Identical Classification = iota
	SizeDiffers
	ContentDiffers
	MissingInA
	MissingInB
)

func (c Classification) String() string {
	switch c {
	case Identical:
		return "IDENTICAL"
	case SizeDiffers:
		return "SIZE DIFFERS"
	case ContentDiffers:
		return "CONTENT DIFFERS"
	case MissingInA:
		return "MISSING IN A"
	case MissingInB:
		return "MISSING IN B"
	default:
		return fmt.Sprintf("classification %d", int(c))
	}
}

// Options configures a comparison run. The zero value compares raw bytes
// only.
type Options struct {
	// Registry enables the schema-aware field pass when non-nil.
	Registry *schema.Registry

	// ResolverA and ResolverB map FormIDs to names in their respective
	// files, used only to reconcile reference fields across load orders.
	ResolverA Resolver
	ResolverB Resolver

	// MaxRender truncates rendered output only (zero = unlimited). Counts
	// and classifications are always computed over the complete set.
	MaxRender int
}

// RecordDiff is the comparison result for one paired record.
type RecordDiff struct {
	FormID    uint32
	Signature string

	// Index separates duplicates under the same (FormID, Signature) key;
	// duplicates pair positionally, never by content similarity.
	Index int

	Class Classification

	// A and B point into the respective File's record list; one side is nil
	// for MissingIn* results.
	A *esm.Record
	B *esm.Record

	// Subrecords is the subrecord-level breakdown, populated for
	// ContentDiffers.
	Subrecords []SubrecordDiff

	// Note flags degraded comparisons, e.g. an undecompressable payload.
	Note string
}

// SubrecordDiff is the comparison result for one paired subrecord.
type SubrecordDiff struct {
	Signature string
	Index     int
	Class     Classification

	// Pattern explains the byte divergence when both sides are present with
	// equal sizes.
	Pattern Pattern

	// Fields is the decoded-field breakdown when a schema resolved.
	Fields []FieldComparison
}

// Result is a whole comparison run.
type Result struct {
	// Records is sorted by (FormID, Signature, Index) so two runs over the
	// same inputs are byte-identical regardless of processing order.
	Records []RecordDiff

	// Counts aggregates record classifications.
	Counts map[Classification]int

	// Stats aggregates subrecord outcomes per signature across the whole
	// run, surfacing which field usually differs for a record type.
	Stats map[string]*SignatureStats
}

type pairKey struct {
	formID    uint32
	signature string
	index     int
}

// Compare classifies every non-group record of a against b. Records pair by
// (FormID, signature); duplicates under the same key pair by stable
// positional index.
func Compare(a, b *esm.File, opts Options) *Result {
	keysA := collectKeys(a)
	keysB := collectKeys(b)

	res := &Result{
		Counts: make(map[Classification]int),
		Stats:  make(map[string]*SignatureStats),
	}

	for key, ra := range keysA {
		rd := RecordDiff{FormID: key.formID, Signature: key.signature, Index: key.index, A: ra}
		if rb, ok := keysB[key]; ok {
			rd = compareRecordPair(a, ra, b, rb, key, opts, res.Stats)
		} else {
			rd.Class = MissingInB
		}
		res.Records = append(res.Records, rd)
		res.Counts[rd.Class]++
	}
	for key, rb := range keysB {
		if _, ok := keysA[key]; ok {
			continue
		}
		rd := RecordDiff{FormID: key.formID, Signature: key.signature, Index: key.index, B: rb, Class: MissingInA}
		res.Records = append(res.Records, rd)
		res.Counts[rd.Class]++
	}

	sort.Slice(res.Records, func(i, j int) bool {
		ri, rj := res.Records[i], res.Records[j]
		if ri.FormID != rj.FormID {
			return ri.FormID < rj.FormID
		}
		if ri.Signature != rj.Signature {
			return ri.Signature < rj.Signature
		}
		return ri.Index < rj.Index
	})
	return res
}

// CompareType restricts the comparison to records of one signature.
func CompareType(a, b *esm.File, signature string, opts Options) *Result {
	sub := func(f *esm.File) *esm.File {
		return &esm.File{
			Name:      f.Name,
			Data:      f.Data,
			BigEndian: f.BigEndian,
			Records:   f.RecordsOfType(signature),
		}
	}
	return Compare(sub(a), sub(b), opts)
}

// CompareRecords classifies a single record pair.
func CompareRecords(a *esm.File, ra esm.Record, b *esm.File, rb esm.Record, opts Options) RecordDiff {
	stats := make(map[string]*SignatureStats)
	key := pairKey{formID: ra.Header.FormID, signature: ra.Header.Signature}
	return compareRecordPair(a, &ra, b, &rb, key, opts, stats)
}

func collectKeys(f *esm.File) map[pairKey]*esm.Record {
	out := make(map[pairKey]*esm.Record, len(f.Records))
	dup := make(map[pairKey]int)
	for i := range f.Records {
		r := &f.Records[i]
		if r.IsGroup {
			continue
		}
		base := pairKey{formID: r.Header.FormID, signature: r.Header.Signature}
		key := base
		key.index = dup[base]
		dup[base]++
		out[key] = r
	}
	return out
}

func compareRecordPair(a *esm.File, ra *esm.Record, b *esm.File, rb *esm.Record, key pairKey, opts Options, stats map[string]*SignatureStats) RecordDiff {
	rd := RecordDiff{FormID: key.formID, Signature: key.signature, Index: key.index, A: ra, B: rb}

	dataA, okA := a.RecordData(*ra)
	dataB, okB := b.RecordData(*rb)
	if !okA || !okB {
		// Payload unavailable on at least one side; classify on declared
		// sizes and skip the content pass.
		if ra.Header.Size != rb.Header.Size {
			rd.Class = SizeDiffers
		} else {
			rd.Class = ContentDiffers
		}
		rd.Note = "payload unavailable, compared declared sizes only"
		return rd
	}

	switch {
	case len(dataA) != len(dataB):
		rd.Class = SizeDiffers
	case bytes.Equal(dataA, dataB):
		rd.Class = Identical
	default:
		rd.Class = ContentDiffers
		rd.Subrecords = compareSubrecords(
			esm.ParseSubrecords(dataA, a.BigEndian),
			esm.ParseSubrecords(dataB, b.BigEndian),
			key.signature, a.BigEndian, b.BigEndian, opts, stats)
	}
	return rd
}

// compareSubrecords pairs subrecords by (signature, duplicate-index) and
// classifies each pair, updating the per-signature statistics.
func compareSubrecords(subsA, subsB []esm.Subrecord, owner string, bigA, bigB bool, opts Options, stats map[string]*SignatureStats) []SubrecordDiff {
	type subKey struct {
		sig   string
		index int
	}
	mapSide := func(subs []esm.Subrecord) (map[subKey]*esm.Subrecord, []subKey) {
		m := make(map[subKey]*esm.Subrecord, len(subs))
		dup := make(map[string]int)
		var order []subKey
		for i := range subs {
			s := &subs[i]
			key := subKey{sig: s.Signature, index: dup[s.Signature]}
			dup[s.Signature]++
			m[key] = s
			order = append(order, key)
		}
		return m, order
	}
	mA, orderA := mapSide(subsA)
	mB, orderB := mapSide(subsB)

	var out []SubrecordDiff
	for _, key := range orderA {
		sa := mA[key]
		sd := SubrecordDiff{Signature: key.sig, Index: key.index}
		sb, ok := mB[key]
		if !ok {
			sd.Class = MissingInB
		} else {
			sd = classifySubrecordPair(sa, sb, key.sig, key.index, owner, bigA, bigB, opts)
		}
		recordStat(stats, sd)
		out = append(out, sd)
	}
	for _, key := range orderB {
		if _, ok := mA[key]; ok {
			continue
		}
		sd := SubrecordDiff{Signature: key.sig, Index: key.index, Class: MissingInA}
		recordStat(stats, sd)
		out = append(out, sd)
	}
	return out
}

func classifySubrecordPair(sa, sb *esm.Subrecord, sig string, index int, owner string, bigA, bigB bool, opts Options) SubrecordDiff {
	sd := SubrecordDiff{Signature: sig, Index: index}
	switch {
	case len(sa.Data) != len(sb.Data):
		sd.Class = SizeDiffers
		return sd
	case bytes.Equal(sa.Data, sb.Data):
		sd.Class = Identical
		return sd
	}
	sd.Class = ContentDiffers
	// Sizes match, so pattern classification is defined.
	if p, err := ClassifyPattern(sa.Data, sb.Data); err == nil {
		sd.Pattern = p
	}
	if opts.Registry != nil {
		if sch := opts.Registry.Get(sig, owner, len(sa.Data)); sch != nil {
			sd.Fields = compareFields(sch, sa.Data, sb.Data, bigA, bigB, opts.ResolverA, opts.ResolverB)
		}
	}
	return sd
}
