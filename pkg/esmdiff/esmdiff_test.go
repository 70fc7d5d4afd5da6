package esmdiff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmdiff/esm/diff"
	"github.com/esmtools/esmdiff/esm/schema"
	"github.com/esmtools/esmdiff/internal/format"
	"github.com/esmtools/esmdiff/internal/testutil"
)

func writeContainer(t *testing.T, name string, big bool, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, testutil.Container(big, records...), 0o644))
	return path
}

func doorRecords(big bool, editorID string, sound uint32) []byte {
	payload := make([]byte, 4)
	format.PutU32(payload, 0, sound, big)
	return testutil.Group(big, "DOOR", format.GroupTopLevel,
		testutil.Leaf(big, "DOOR", 0x10, 0, testutil.Subs(
			testutil.Sub(big, "EDID", append([]byte(editorID), 0)),
			testutil.Sub(big, "SNAM", payload),
		)))
}

func TestOpenAndClose(t *testing.T) {
	path := writeContainer(t, "base.esm", false, doorRecords(false, "DoorMain01", 0x30))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, path, f.Name)
	require.False(t, f.BigEndian)
	require.NotNil(t, f.Header)
	require.NotNil(t, f.FindRecord(0x10, "DOOR", 0))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close()) // idempotent
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.esm"))
	require.Error(t, err)
}

func TestCompareFiles(t *testing.T) {
	pathA := writeContainer(t, "a.esm", false, doorRecords(false, "DoorMain01", 0x30))
	pathB := writeContainer(t, "b.esm", false, doorRecords(false, "DoorMain01", 0x31))

	res, err := CompareFiles(pathA, pathB, diff.Options{Registry: schema.DefaultRegistry()})
	require.NoError(t, err)

	var door *diff.RecordDiff
	for i := range res.Records {
		if res.Records[i].Signature == "DOOR" {
			door = &res.Records[i]
		}
	}
	require.NotNil(t, door)
	require.Equal(t, diff.ContentDiffers, door.Class)

	classes := make(map[string]diff.Classification)
	for _, sd := range door.Subrecords {
		classes[sd.Signature] = sd.Class
	}
	require.Equal(t, diff.Identical, classes["EDID"])
	require.Equal(t, diff.ContentDiffers, classes["SNAM"])
}

func TestCompareFilesCrossEncoding(t *testing.T) {
	pathA := writeContainer(t, "le.esm", false, doorRecords(false, "DoorMain01", 0x30))
	pathB := writeContainer(t, "be.esm", true, doorRecords(true, "DoorMain01", 0x30))

	res, err := CompareFiles(pathA, pathB, diff.Options{Registry: schema.DefaultRegistry()})
	require.NoError(t, err)

	var door *diff.RecordDiff
	for i := range res.Records {
		if res.Records[i].Signature == "DOOR" {
			door = &res.Records[i]
		}
	}
	require.NotNil(t, door)
	require.Equal(t, diff.ContentDiffers, door.Class)

	// The sound reference bytes are swapped on disk but decode to the same
	// FormID under each file's own byte order.
	for _, sd := range door.Subrecords {
		if sd.Signature != "SNAM" {
			continue
		}
		require.Equal(t, diff.PatternEndianSwap, sd.Pattern.Kind)
		require.Len(t, sd.Fields, 1)
		require.Equal(t, diff.FieldMatch, sd.Fields[0].Status)
	}
}

func TestBuildResolver(t *testing.T) {
	path := writeContainer(t, "base.esm", false, doorRecords(false, "DoorMain01", 0x30))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	resolver := BuildResolver(f.File)
	require.Equal(t, "DoorMain01", resolver[0x10])
}
