package schema

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/esmtools/esmdiff/internal/format"
)

// DecodeFieldValue renders data as a canonical, endianness-resolved string.
// The formats are fixed (FormIDs always 0x%08X, floats always six decimals)
// so that string equality between two independently decoded files is a
// meaningful comparison.
func DecodeFieldValue(data []byte, kind FieldKind, bigEndian bool) (string, error) {
	if need := kind.DefaultSize(); need > 0 && len(data) < need {
		return "", fmt.Errorf("schema: %s needs %d bytes, have %d", kind, need, len(data))
	}
	switch kind {
	case UInt8:
		return strconv.FormatUint(uint64(data[0]), 10), nil
	case UInt16:
		return strconv.FormatUint(uint64(format.ReadU16(data, 0, bigEndian)), 10), nil
	case UInt32:
		return strconv.FormatUint(uint64(format.ReadU32(data, 0, bigEndian)), 10), nil
	case UInt64:
		return strconv.FormatUint(format.ReadU64(data, 0, bigEndian), 10), nil
	case Int8:
		return strconv.FormatInt(int64(int8(data[0])), 10), nil
	case Int16:
		return strconv.FormatInt(int64(int16(format.ReadU16(data, 0, bigEndian))), 10), nil
	case Int32:
		return strconv.FormatInt(int64(format.ReadI32(data, 0, bigEndian)), 10), nil
	case Int64:
		return strconv.FormatInt(int64(format.ReadU64(data, 0, bigEndian)), 10), nil
	case Float32:
		return formatFloat(float64(format.ReadF32(data, 0, bigEndian))), nil
	case Float64:
		return formatFloat(format.ReadF64(data, 0, bigEndian)), nil
	case FormID:
		return FormatFormID(format.ReadU32(data, 0, bigEndian)), nil
	case FormIDLE:
		// Legacy exception: stored little-endian in both encodings.
		return FormatFormID(format.ReadU32(data, 0, false)), nil
	case Vec3:
		return fmt.Sprintf("(%s, %s, %s)",
			formatFloat(float64(format.ReadF32(data, 0, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 4, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 8, bigEndian)))), nil
	case Quaternion:
		return fmt.Sprintf("(%s, %s, %s, %s)",
			formatFloat(float64(format.ReadF32(data, 0, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 4, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 8, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 12, bigEndian)))), nil
	case PosRot:
		return fmt.Sprintf("pos=(%s, %s, %s) rot=(%s, %s, %s)",
			formatFloat(float64(format.ReadF32(data, 0, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 4, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 8, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 12, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 16, bigEndian))),
			formatFloat(float64(format.ReadF32(data, 20, bigEndian)))), nil
	case ColorRGBA:
		return fmt.Sprintf("#%02X%02X%02X%02X", data[0], data[1], data[2], data[3]), nil
	case ColorARGB:
		// Canonicalized to the same #RRGGBBAA form as ColorRGBA so the two
		// component orders compare equal across encodings.
		return fmt.Sprintf("#%02X%02X%02X%02X", data[1], data[2], data[3], data[0]), nil
	case UInt32WordSwap:
		v := format.ReadU32(data, 0, bigEndian)
		if bigEndian {
			// The console byte-swapper treated this field as two 16-bit
			// words; undo the half exchange to recover the logical value.
			v = v>>16 | v<<16
		}
		return strconv.FormatUint(uint64(v), 10), nil
	case String:
		return decodeW1252(data)
	case ZString:
		end := len(data)
		for i, b := range data {
			if b == 0 {
				end = i
				break
			}
		}
		return decodeW1252(data[:end])
	default:
		return "", fmt.Errorf("schema: unknown field kind %d", uint8(kind))
	}
}

// FormatFormID renders a FormID in the canonical 0xXXXXXXXX form.
func FormatFormID(id uint32) string {
	return fmt.Sprintf("0x%08X", id)
}

// formatFloat fixes float rendering at six decimals so both encodings of the
// same value produce identical text.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// decodeW1252 decodes windows-1252 text, the string encoding used by the
// reference tools for editor IDs and display names.
func decodeW1252(data []byte) (string, error) {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		// The decoder replaces rather than fails for this charmap, but keep
		// the fallback path total.
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	return string(decoded), nil
}
