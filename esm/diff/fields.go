package diff

import (
	"fmt"

	"github.com/esmtools/esmdiff/esm/schema"
	"github.com/esmtools/esmdiff/internal/format"
)

// Resolver maps FormIDs to human names for one file. It is read-only during
// a comparison and belongs to exactly one side: the same raw FormID means
// different things in files with different load orders.
type Resolver map[uint32]string

// FieldStatus is the outcome of comparing one decoded field across sides.
type FieldStatus int

const (
	// FieldMatch: canonical values are equal.
	FieldMatch FieldStatus = iota

	// FieldMatchRenamed: raw FormIDs differ but both resolve, in their own
	// file, to the same name. Expected when load order differs across files.
	FieldMatchRenamed

	// FieldDiffers: values differ and no resolution reconciles them.
	FieldDiffers
)

func (s FieldStatus) String() string {
	switch s {
	case FieldMatch:
		return "MATCH"
	case FieldMatchRenamed:
		return "MATCH (renamed)"
	case FieldDiffers:
		return "DIFFERS"
	default:
		return fmt.Sprintf("field status %d", int(s))
	}
}

// FieldComparison is one field compared at decoded-value granularity.
type FieldComparison struct {
	Name   string
	Kind   schema.FieldKind
	Status FieldStatus
	ValueA string
	ValueB string

	// Note carries the annotation for FieldMatchRenamed.
	Note string
}

// compareFields decodes both payloads under one schema and compares decoded
// values rather than raw bytes. Either side failing to decode disables the
// field pass for this subrecord (nil result); a schema mismatch is opaque,
// never an error.
func compareFields(sch *schema.SubrecordSchema, dataA, dataB []byte, bigA, bigB bool, resolverA, resolverB Resolver) []FieldComparison {
	fieldsA, err := sch.Decode(dataA, bigA)
	if err != nil {
		return nil
	}
	fieldsB, err := sch.Decode(dataB, bigB)
	if err != nil {
		return nil
	}
	if len(fieldsA) != len(fieldsB) {
		return nil
	}

	out := make([]FieldComparison, 0, len(fieldsA))
	for i := range fieldsA {
		fa, fb := fieldsA[i], fieldsB[i]
		fc := FieldComparison{Name: fa.Name, Kind: fa.Kind, ValueA: fa.Value, ValueB: fb.Value}
		switch fa.Kind {
		case schema.FormID, schema.FormIDLE:
			fc.Status, fc.Note = compareFormIDField(fa, fb, bigA, bigB, resolverA, resolverB)
		default:
			if fa.Value == fb.Value {
				fc.Status = FieldMatch
			} else {
				fc.Status = FieldDiffers
			}
		}
		out = append(out, fc)
	}
	return out
}

// compareFormIDField compares a reference field. Raw equality is the fast
// path; on mismatch each side's raw value is resolved through its own
// file's resolver, and equal names count as a match with an annotation.
// When only one side resolves, or neither does, raw equality stands.
func compareFormIDField(fa, fb schema.DecodedField, bigA, bigB bool, resolverA, resolverB Resolver) (FieldStatus, string) {
	rawA := formIDValue(fa, bigA)
	rawB := formIDValue(fb, bigB)
	if rawA == rawB {
		return FieldMatch, ""
	}
	nameA, okA := resolverA[rawA]
	nameB, okB := resolverB[rawB]
	if okA && okB && nameA == nameB {
		return FieldMatchRenamed, fmt.Sprintf("FormID differs, same name %q", nameA)
	}
	return FieldDiffers, ""
}

func formIDValue(f schema.DecodedField, bigEndian bool) uint32 {
	if len(f.Raw) < 4 {
		return 0
	}
	if f.Kind == schema.FormIDLE {
		return format.ReadU32(f.Raw, 0, false)
	}
	return format.ReadU32(f.Raw, 0, bigEndian)
}
