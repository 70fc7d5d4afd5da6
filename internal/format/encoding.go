package format

import (
	"encoding/binary"
	"math"
)

// Binary encoding utilities parameterized on byte order.
//
// The reference encoding is little-endian and the console encoding is
// big-endian, so every reader takes a bigEndian flag resolved once per
// buffer. Go's standard binary package is already heavily optimized and
// inlines well; there is no need for anything faster here.

// Order returns the binary.ByteOrder for the given endianness flag.
func Order(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ReadU16 reads a uint16 from the buffer at the specified offset.
func ReadU16(b []byte, off int, bigEndian bool) uint16 {
	return Order(bigEndian).Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 from the buffer at the specified offset.
func ReadU32(b []byte, off int, bigEndian bool) uint32 {
	return Order(bigEndian).Uint32(b[off : off+4])
}

// ReadU64 reads a uint64 from the buffer at the specified offset.
func ReadU64(b []byte, off int, bigEndian bool) uint64 {
	return Order(bigEndian).Uint64(b[off : off+8])
}

// ReadI32 reads an int32 from the buffer at the specified offset.
func ReadI32(b []byte, off int, bigEndian bool) int32 {
	return int32(ReadU32(b, off, bigEndian))
}

// ReadF32 reads a float32 from the buffer at the specified offset.
func ReadF32(b []byte, off int, bigEndian bool) float32 {
	return math.Float32frombits(ReadU32(b, off, bigEndian))
}

// ReadF64 reads a float64 from the buffer at the specified offset.
func ReadF64(b []byte, off int, bigEndian bool) float64 {
	return math.Float64frombits(ReadU64(b, off, bigEndian))
}

// ReadSignature reads a 4-character signature at the specified offset. In the
// big-endian encoding signature bytes are stored reversed (they are written
// as a 32-bit integer), so the same tag reads back identically from either
// encoding once the flag is known.
func ReadSignature(b []byte, off int, bigEndian bool) string {
	s := b[off : off+SignatureSize]
	if bigEndian {
		return string([]byte{s[3], s[2], s[1], s[0]})
	}
	return string(s)
}

// PutU16 writes a uint16 to the buffer at the specified offset.
func PutU16(b []byte, off int, v uint16, bigEndian bool) {
	Order(bigEndian).PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 to the buffer at the specified offset.
func PutU32(b []byte, off int, v uint32, bigEndian bool) {
	Order(bigEndian).PutUint32(b[off:off+4], v)
}

// PutU64 writes a uint64 to the buffer at the specified offset.
func PutU64(b []byte, off int, v uint64, bigEndian bool) {
	Order(bigEndian).PutUint64(b[off:off+8], v)
}

// PutF32 writes a float32 to the buffer at the specified offset.
func PutF32(b []byte, off int, v float32, bigEndian bool) {
	PutU32(b, off, math.Float32bits(v), bigEndian)
}

// PutSignature writes a 4-character signature at the specified offset,
// reversed when the target encoding is big-endian.
func PutSignature(b []byte, off int, sig string, bigEndian bool) {
	if bigEndian {
		b[off], b[off+1], b[off+2], b[off+3] = sig[3], sig[2], sig[1], sig[0]
		return
	}
	copy(b[off:off+SignatureSize], sig)
}
