package esm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmdiff/internal/format"
	"github.com/esmtools/esmdiff/internal/testutil"
)

func TestRecordDataUncompressed(t *testing.T) {
	payload := testutil.Sub(false, "EDID", []byte("Thing01\x00"))
	buf := testutil.Leaf(false, "MISC", 0x10, 0, payload)

	records, _, err := ScanAllRecords(buf, false)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got, ok := RecordData(buf, records[0], false)
	require.True(t, ok)
	require.True(t, bytes.Equal(payload, got))
}

func TestRecordDataCompressed(t *testing.T) {
	for _, big := range []bool{false, true} {
		payload := testutil.Subs(
			testutil.Sub(big, "EDID", []byte("Chest01\x00")),
			testutil.Sub(big, "DATA", make([]byte, 24)),
		)
		buf := testutil.Leaf(big, "REFR", 0x20, format.FlagCompressed, testutil.Compress(big, payload))

		records, _, err := ScanAllRecords(buf, big)
		require.NoError(t, err)

		got, ok := RecordData(buf, records[0], big)
		require.True(t, ok)
		require.True(t, bytes.Equal(payload, got))
	}
}

func TestRecordDataImplausibleDeclaredSize(t *testing.T) {
	payload := testutil.Compress(false, []byte("abc"))
	// Claim a decompressed size past the plausibility cap.
	format.PutU32(payload, 0, format.MaxDecompressedSize+1, false)
	buf := testutil.Leaf(false, "REFR", 0x20, format.FlagCompressed, payload)

	records, _, err := ScanAllRecords(buf, false)
	require.NoError(t, err)

	_, ok := RecordData(buf, records[0], false)
	require.False(t, ok, "implausible declared size must yield no payload, not an allocation attempt")
}

func TestRecordDataCorruptStream(t *testing.T) {
	payload := testutil.Compress(false, []byte("some payload bytes"))
	for i := format.CompressedPrefixSize; i < len(payload); i++ {
		payload[i] ^= 0xFF
	}
	buf := testutil.Leaf(false, "REFR", 0x20, format.FlagCompressed, payload)

	records, _, err := ScanAllRecords(buf, false)
	require.NoError(t, err)

	_, ok := RecordData(buf, records[0], false)
	require.False(t, ok)
}

func TestRecordDataShortCompressedPayload(t *testing.T) {
	buf := testutil.Leaf(false, "REFR", 0x20, format.FlagCompressed, []byte{0x01, 0x02})

	records, _, err := ScanAllRecords(buf, false)
	require.NoError(t, err)

	_, ok := RecordData(buf, records[0], false)
	require.False(t, ok)
}

func TestRecordDataGroupReturnsChildRange(t *testing.T) {
	child := testutil.Leaf(false, "DOOR", 0x10, 0, nil)
	group := testutil.Group(false, "DOOR", format.GroupTopLevel, child)

	records, _, err := ScanAllRecords(group, false)
	require.NoError(t, err)
	require.True(t, records[0].IsGroup)

	got, ok := RecordData(group, records[0], false)
	require.True(t, ok)
	require.True(t, bytes.Equal(child, got))
}
