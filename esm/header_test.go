package esm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmdiff/internal/format"
	"github.com/esmtools/esmdiff/internal/testutil"
)

func TestDetectEndian(t *testing.T) {
	le := testutil.Container(false)
	big, ok := DetectEndian(le)
	require.True(t, ok)
	require.False(t, big)

	be := testutil.Container(true)
	big, ok = DetectEndian(be)
	require.True(t, ok)
	require.True(t, big)

	_, ok = DetectEndian([]byte("JUNKJUNKJUNK"))
	require.False(t, ok)

	_, ok = DetectEndian([]byte{0x01})
	require.False(t, ok)
}

func TestParseFileHeader(t *testing.T) {
	for _, big := range []bool{false, true} {
		buf := testutil.Container(big, testutil.Leaf(big, "GMST", 1, 0, nil))
		fh, err := ParseFileHeader(buf, big)
		require.NoError(t, err)
		require.Equal(t, "TES4", fh.Record.Header.Signature)
		require.True(t, fh.Record.Header.IsMaster())
		require.True(t, fh.HasInfo)
		require.Equal(t, float32(1.0), fh.Version)
		require.Equal(t, uint32(1), fh.RecordCount)
		require.Equal(t, uint32(0x800), fh.NextObjectID)
	}
}

func TestParseFileHeaderWrongSignature(t *testing.T) {
	buf := testutil.Leaf(false, "GMST", 1, 0, nil)
	_, err := ParseFileHeader(buf, false)
	require.ErrorIs(t, err, format.ErrSignatureMismatch)
}

func TestParseFileHeaderTooSmall(t *testing.T) {
	_, err := ParseFileHeader(make([]byte, 10), false)
	require.ErrorIs(t, err, format.ErrBufferTooSmall)
}

func TestParseDetectsEncoding(t *testing.T) {
	for _, big := range []bool{false, true} {
		buf := testutil.Container(big, testutil.Leaf(big, "DOOR", 0x42, 0, nil))
		f, err := Parse(buf)
		require.NoError(t, err)
		require.Equal(t, big, f.BigEndian)
		require.NotNil(t, f.Header)
		require.Len(t, f.Records, 2)
		require.Equal(t, uint32(0x42), f.Records[1].Header.FormID)
	}
}

func TestParseUnknownSignatureWarns(t *testing.T) {
	buf := testutil.Container(false)
	copy(buf[:4], "ZZZZ")

	f, err := Parse(buf)
	require.NoError(t, err)
	require.False(t, f.BigEndian)
	require.NotEmpty(t, f.Warnings)
	require.Equal(t, WarnUnknownEndianness, f.Warnings[0].Kind)
}
