package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmdiff/esm"
	"github.com/esmtools/esmdiff/esm/schema"
	"github.com/esmtools/esmdiff/internal/format"
	"github.com/esmtools/esmdiff/internal/testutil"
)

func parseFixture(t *testing.T, big bool, records ...[]byte) *esm.File {
	t.Helper()
	f, err := esm.ParseWithEndian(testutil.Container(big, records...), big)
	require.NoError(t, err)
	require.Empty(t, f.Warnings)
	return f
}

func TestCompareIdentical(t *testing.T) {
	records := testutil.Group(false, "DOOR", format.GroupTopLevel,
		testutil.Leaf(false, "DOOR", 0x10, 0, testutil.Sub(false, "EDID", []byte("A\x00"))),
		testutil.Leaf(false, "DOOR", 0x11, 0, testutil.Sub(false, "EDID", []byte("B\x00"))),
	)
	a := parseFixture(t, false, records)
	b := parseFixture(t, false, records)

	res := Compare(a, b, Options{})
	require.Len(t, res.Records, 3) // TES4 header record plus two doors
	require.Equal(t, 3, res.Counts[Identical])
	require.Zero(t, res.Counts[ContentDiffers])
	for _, rd := range res.Records {
		require.Equal(t, Identical, rd.Class)
	}
}

func TestCompareClassifications(t *testing.T) {
	doorA := func(id uint32, payload []byte) []byte {
		return testutil.Leaf(false, "DOOR", id, 0, testutil.Sub(false, "DATA", payload))
	}
	a := parseFixture(t, false, testutil.Group(false, "DOOR", format.GroupTopLevel,
		doorA(0x10, []byte{1, 2, 3, 4}),
		doorA(0x11, []byte{1, 2, 3, 4}),
		doorA(0x12, []byte{1, 2, 3, 4}),
		doorA(0x14, []byte{1, 2, 3, 4}),
	))
	b := parseFixture(t, false, testutil.Group(false, "DOOR", format.GroupTopLevel,
		doorA(0x10, []byte{1, 2, 3, 4}), // identical
		doorA(0x11, []byte{1, 2, 9, 4}), // content differs
		doorA(0x12, []byte{1, 2, 3}),    // size differs
		doorA(0x13, []byte{1, 2, 3, 4}), // missing in a
	))

	res := Compare(a, b, Options{})
	require.Equal(t, 2, res.Counts[Identical]) // TES4 plus 0x10
	require.Equal(t, 1, res.Counts[ContentDiffers])
	require.Equal(t, 1, res.Counts[SizeDiffers])
	require.Equal(t, 1, res.Counts[MissingInA])
	require.Equal(t, 1, res.Counts[MissingInB])

	byID := make(map[uint32]RecordDiff)
	for _, rd := range res.Records {
		if rd.Signature == "DOOR" {
			byID[rd.FormID] = rd
		}
	}
	require.Equal(t, Identical, byID[0x10].Class)
	require.Equal(t, ContentDiffers, byID[0x11].Class)
	require.Equal(t, SizeDiffers, byID[0x12].Class)
	require.Equal(t, MissingInA, byID[0x13].Class)
	require.Nil(t, byID[0x13].A)
	require.Equal(t, MissingInB, byID[0x14].Class)
	require.Nil(t, byID[0x14].B)

	// Sorted by (FormID, Signature, Index).
	for i := 1; i < len(res.Records); i++ {
		require.LessOrEqual(t, res.Records[i-1].FormID, res.Records[i].FormID)
	}
}

func TestCompareSymmetry(t *testing.T) {
	doorA := func(id uint32, payload []byte) []byte {
		return testutil.Leaf(false, "DOOR", id, 0, testutil.Sub(false, "DATA", payload))
	}
	a := parseFixture(t, false, testutil.Group(false, "DOOR", format.GroupTopLevel,
		doorA(0x10, []byte{1, 2, 3, 4}),
		doorA(0x11, []byte{1, 2, 3, 4}),
		doorA(0x14, []byte{5, 6, 7, 8}),
	))
	b := parseFixture(t, false, testutil.Group(false, "DOOR", format.GroupTopLevel,
		doorA(0x10, []byte{1, 2, 3, 4}),
		doorA(0x11, []byte{9, 2, 3, 4}),
		doorA(0x13, []byte{5, 6, 7, 8}),
	))

	ab := Compare(a, b, Options{})
	ba := Compare(b, a, Options{})

	require.Equal(t, ab.Counts[Identical], ba.Counts[Identical])
	require.Equal(t, ab.Counts[SizeDiffers], ba.Counts[SizeDiffers])
	require.Equal(t, ab.Counts[ContentDiffers], ba.Counts[ContentDiffers])
	require.Equal(t, ab.Counts[MissingInA], ba.Counts[MissingInB])
	require.Equal(t, ab.Counts[MissingInB], ba.Counts[MissingInA])
	require.Len(t, ba.Records, len(ab.Records))
}

func TestCompareDuplicatesPairPositionally(t *testing.T) {
	dup := func(payload []byte) []byte {
		return testutil.Leaf(false, "REFR", 0x20, 0, testutil.Sub(false, "NAME", payload))
	}
	a := parseFixture(t, false, testutil.Group(false, "REFR", format.GroupTopLevel,
		dup([]byte{1, 0, 0, 0}),
		dup([]byte{2, 0, 0, 0}),
	))
	b := parseFixture(t, false, testutil.Group(false, "REFR", format.GroupTopLevel,
		dup([]byte{1, 0, 0, 0}),
		dup([]byte{3, 0, 0, 0}),
	))

	res := Compare(a, b, Options{})

	var refrs []RecordDiff
	for _, rd := range res.Records {
		if rd.Signature == "REFR" {
			refrs = append(refrs, rd)
		}
	}
	require.Len(t, refrs, 2)
	require.Equal(t, 0, refrs[0].Index)
	require.Equal(t, Identical, refrs[0].Class)
	require.Equal(t, 1, refrs[1].Index)
	require.Equal(t, ContentDiffers, refrs[1].Class)
}

func TestCompareCrossEncoding(t *testing.T) {
	// Logically identical REFR records in the two encodings. Raw bytes
	// differ, the pattern pass explains the divergence as a byte-order swap,
	// and the schema pass proves the decoded values agree.
	refr := func(big bool) []byte {
		payload := make([]byte, 4)
		format.PutU32(payload, 0, 0x00000123, big)
		return testutil.Group(big, "REFR", format.GroupTopLevel,
			testutil.Leaf(big, "REFR", 0x20, 0, testutil.Sub(big, "NAME", payload)))
	}
	a := parseFixture(t, false, refr(false))
	b := parseFixture(t, true, refr(true))

	res := Compare(a, b, Options{Registry: schema.DefaultRegistry()})

	var refrDiff *RecordDiff
	for i := range res.Records {
		if res.Records[i].Signature == "REFR" {
			refrDiff = &res.Records[i]
		}
	}
	require.NotNil(t, refrDiff)
	require.Equal(t, ContentDiffers, refrDiff.Class)
	require.Len(t, refrDiff.Subrecords, 1)

	sd := refrDiff.Subrecords[0]
	require.Equal(t, "NAME", sd.Signature)
	require.Equal(t, ContentDiffers, sd.Class)
	require.Equal(t, PatternEndianSwap, sd.Pattern.Kind)
	require.Equal(t, 4, sd.Pattern.Width)
	require.Equal(t, "ENDIAN-SWAPPED (width 4)", sd.Pattern.String())

	require.Len(t, sd.Fields, 1)
	require.Equal(t, FieldMatch, sd.Fields[0].Status)
	require.Equal(t, "0x00000123", sd.Fields[0].ValueA)

	require.Equal(t, 1, res.Stats["NAME"].EndianSwapped)
	require.Equal(t, 1, res.Stats["NAME"].ContentDiffers)
}

func TestCompareSubrecordMissing(t *testing.T) {
	// Equal payload sizes, different subrecord sets: XCNT on one side was
	// replaced by XSCL on the other.
	withCount := testutil.Leaf(false, "REFR", 0x20, 0, testutil.Subs(
		testutil.Sub(false, "NAME", []byte{1, 0, 0, 0}),
		testutil.Sub(false, "XCNT", []byte{2, 0, 0, 0}),
	))
	withScale := testutil.Leaf(false, "REFR", 0x20, 0, testutil.Subs(
		testutil.Sub(false, "NAME", []byte{1, 0, 0, 0}),
		testutil.Sub(false, "XSCL", []byte{0, 0, 0x80, 0x3F}),
	))

	a := parseFixture(t, false, testutil.Group(false, "REFR", format.GroupTopLevel, withCount))
	b := parseFixture(t, false, testutil.Group(false, "REFR", format.GroupTopLevel, withScale))

	res := Compare(a, b, Options{})
	require.Equal(t, 1, res.Counts[ContentDiffers])

	var refr *RecordDiff
	for i := range res.Records {
		if res.Records[i].Signature == "REFR" {
			refr = &res.Records[i]
		}
	}
	require.NotNil(t, refr)

	classes := make(map[string]Classification)
	for _, sd := range refr.Subrecords {
		classes[sd.Signature] = sd.Class
	}
	require.Equal(t, Identical, classes["NAME"])
	require.Equal(t, MissingInB, classes["XCNT"])
	require.Equal(t, MissingInA, classes["XSCL"])

	require.Equal(t, 1, res.Stats["XCNT"].MissingInB)
	require.Equal(t, 1, res.Stats["XSCL"].MissingInA)
	require.Equal(t, 1, res.Stats["NAME"].Identical)
	require.Equal(t, 1, res.Stats["NAME"].Total())

	// Declared sizes that disagree classify without a content pass.
	shorter := testutil.Leaf(false, "REFR", 0x20, 0,
		testutil.Sub(false, "NAME", []byte{1, 0, 0, 0}))
	c := parseFixture(t, false, testutil.Group(false, "REFR", format.GroupTopLevel, shorter))
	ra := a.FindRecord(0x20, "REFR", 0)
	rc := c.FindRecord(0x20, "REFR", 0)
	require.NotNil(t, ra)
	require.NotNil(t, rc)
	rd := CompareRecords(a, *ra, c, *rc, Options{})
	require.Equal(t, SizeDiffers, rd.Class)
	require.Empty(t, rd.Subrecords)
}

func TestCompareTypeFilters(t *testing.T) {
	a := parseFixture(t, false,
		testutil.Group(false, "DOOR", format.GroupTopLevel,
			testutil.Leaf(false, "DOOR", 0x10, 0, testutil.Sub(false, "EDID", []byte("A\x00")))),
		testutil.Group(false, "LIGH", format.GroupTopLevel,
			testutil.Leaf(false, "LIGH", 0x30, 0, testutil.Sub(false, "EDID", []byte("L\x00")))),
	)
	b := parseFixture(t, false,
		testutil.Group(false, "DOOR", format.GroupTopLevel,
			testutil.Leaf(false, "DOOR", 0x10, 0, testutil.Sub(false, "EDID", []byte("A\x00")))),
	)

	res := CompareType(a, b, "DOOR", Options{})
	require.Len(t, res.Records, 1)
	require.Equal(t, "DOOR", res.Records[0].Signature)
	require.Equal(t, Identical, res.Records[0].Class)
}

func TestCompareCompressedPayloadUnavailable(t *testing.T) {
	// Implausible declared decompressed length on one side: the comparison
	// degrades to declared sizes and says so.
	bogus := make([]byte, 8)
	format.PutU32(bogus, 0, format.MaxDecompressedSize+1, false)
	good := testutil.Leaf(false, "NPC_", 0x40, 0, testutil.Sub(false, "EDID", []byte("N\x00")))
	bad := testutil.Leaf(false, "NPC_", 0x40, format.FlagCompressed, bogus)

	a := parseFixture(t, false, testutil.Group(false, "NPC_", format.GroupTopLevel, good))
	b := parseFixture(t, false, testutil.Group(false, "NPC_", format.GroupTopLevel, bad))

	res := Compare(a, b, Options{})
	var npc *RecordDiff
	for i := range res.Records {
		if res.Records[i].Signature == "NPC_" {
			npc = &res.Records[i]
		}
	}
	require.NotNil(t, npc)
	require.NotEqual(t, Identical, npc.Class)
	require.NotEmpty(t, npc.Note)
	require.Empty(t, npc.Subrecords)
}

func TestResultRenderLimit(t *testing.T) {
	res := &Result{Records: make([]RecordDiff, 10)}
	require.Len(t, res.RenderLimit(3), 3)
	require.Len(t, res.RenderLimit(0), 10)
	require.Len(t, res.RenderLimit(50), 10)
}
