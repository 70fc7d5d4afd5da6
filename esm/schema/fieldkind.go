// Package schema maps subrecord payloads to typed field layouts.
//
// Schemas are reverse-engineered, best-effort knowledge: a subrecord with no
// matching schema is legitimately opaque, never an error. The registry is
// immutable after construction and safe for concurrent lookups.
package schema

import "fmt"

// FieldKind is the closed set of field types a schema can declare. Decoding
// switches exhaustively over it, so adding a kind is a compile-time-checked
// change.
type FieldKind uint8

const (
	UInt8 FieldKind = iota
	UInt16
	UInt32
	UInt64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64

	// FormID is a 32-bit identifier in the surrounding endianness.
	FormID

	// FormIDLE is a FormID that is never byte-swapped regardless of the
	// surrounding endianness. A known legacy exception, not a bug.
	FormIDLE

	// Vec3 is three consecutive float32 values.
	Vec3

	// Quaternion is four consecutive float32 values.
	Quaternion

	// PosRot is three float32 position values followed by three float32
	// rotation values, 24 bytes.
	PosRot

	// ColorRGBA and ColorARGB are 4 bytes each, differing only in component
	// order. Both render to the same canonical #RRGGBBAA form.
	ColorRGBA
	ColorARGB

	// UInt32WordSwap is a 32-bit value whose two 16-bit halves appear
	// exchanged in the big-endian encoding (the byte-swapper treated it as
	// two 16-bit words). Narrower than, and distinct from, full byte-order
	// reversal.
	UInt32WordSwap

	// String is raw windows-1252 text filling its field size.
	String

	// ZString is NUL-terminated windows-1252 text.
	ZString
)

// DefaultSize returns the kind's default byte size. Zero means the field
// consumes whatever bytes remain in the payload; size-0 kinds are only valid
// as the last field of a schema.
func (k FieldKind) DefaultSize() int {
	switch k {
	case UInt8, Int8:
		return 1
	case UInt16, Int16:
		return 2
	case UInt32, Int32, Float32, FormID, FormIDLE, ColorRGBA, ColorARGB, UInt32WordSwap:
		return 4
	case UInt64, Int64, Float64:
		return 8
	case Vec3:
		return 12
	case Quaternion:
		return 16
	case PosRot:
		return 24
	case String, ZString:
		return 0
	default:
		return 0
	}
}

func (k FieldKind) String() string {
	switch k {
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case FormID:
		return "formid"
	case FormIDLE:
		return "formid-le"
	case Vec3:
		return "vec3"
	case Quaternion:
		return "quaternion"
	case PosRot:
		return "posrot"
	case ColorRGBA:
		return "color-rgba"
	case ColorARGB:
		return "color-argb"
	case UInt32WordSwap:
		return "uint32-wordswap"
	case String:
		return "string"
	case ZString:
		return "zstring"
	default:
		return fmt.Sprintf("fieldkind(%d)", uint8(k))
	}
}
