package esm

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/esmtools/esmdiff/internal/buf"
	"github.com/esmtools/esmdiff/internal/format"
)

// RecordData returns the record's payload bytes, transparently decompressing
// when the compressed flag is set. For groups it returns the raw child range.
//
// ok is false when no payload is available: the span was truncated away, the
// declared decompressed size is implausible (corrupted dumps routinely claim
// gigabytes), or the zlib stream is corrupt. These are expected, recoverable
// conditions; the record's header remains valid either way.
func RecordData(data []byte, rec Record, bigEndian bool) ([]byte, bool) {
	payloadLen := rec.TotalSize - format.RecordHeaderSize
	if payloadLen < 0 {
		return nil, false
	}
	raw, has := buf.Slice(data, rec.PayloadOffset(), payloadLen)
	if !has {
		return nil, false
	}
	if rec.IsGroup || !rec.Header.IsCompressed() {
		return raw, true
	}
	return decompress(raw, bigEndian)
}

// decompress inflates a compressed payload: a uint32 decompressed-length
// prefix followed by a zlib stream.
func decompress(raw []byte, bigEndian bool) ([]byte, bool) {
	if len(raw) < format.CompressedPrefixSize {
		return nil, false
	}
	declared := int(format.ReadU32(raw, 0, bigEndian))
	if declared == 0 || declared > format.MaxDecompressedSize {
		// Implausible size; refuse the allocation rather than trusting a
		// length field read out of garbage memory.
		return nil, false
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw[format.CompressedPrefixSize:]))
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	out := make([]byte, 0, declared)
	w := bytes.NewBuffer(out)
	if _, err := io.Copy(w, io.LimitReader(zr, int64(declared))); err != nil {
		return nil, false
	}
	if w.Len() != declared {
		return nil, false
	}
	return w.Bytes(), true
}
