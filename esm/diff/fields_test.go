package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmdiff/esm/schema"
	"github.com/esmtools/esmdiff/internal/format"
)

func refrNameSchema(t *testing.T) *schema.SubrecordSchema {
	t.Helper()
	sch := schema.DefaultRegistry().Get("NAME", "REFR", 4)
	require.NotNil(t, sch)
	return sch
}

func formIDBytes(id uint32, big bool) []byte {
	buf := make([]byte, 4)
	format.PutU32(buf, 0, id, big)
	return buf
}

func TestCompareFieldsFormIDRenamed(t *testing.T) {
	// The same object carries different FormIDs in the two files because the
	// load orders differ; both resolve to the same editor ID.
	sch := refrNameSchema(t)
	resolverA := Resolver{0x01000010: "DoorMain01"}
	resolverB := Resolver{0x02000010: "DoorMain01"}

	fields := compareFields(sch,
		formIDBytes(0x01000010, false), formIDBytes(0x02000010, false),
		false, false, resolverA, resolverB)
	require.Len(t, fields, 1)
	require.Equal(t, FieldMatchRenamed, fields[0].Status)
	require.Equal(t, `FormID differs, same name "DoorMain01"`, fields[0].Note)
	require.Equal(t, "MATCH (renamed)", fields[0].Status.String())
}

func TestCompareFieldsFormIDDiffers(t *testing.T) {
	sch := refrNameSchema(t)

	// No resolver entries: raw inequality stands.
	fields := compareFields(sch,
		formIDBytes(0x01000010, false), formIDBytes(0x02000010, false),
		false, false, nil, nil)
	require.Len(t, fields, 1)
	require.Equal(t, FieldDiffers, fields[0].Status)

	// Only one side resolves: still differing.
	fields = compareFields(sch,
		formIDBytes(0x01000010, false), formIDBytes(0x02000010, false),
		false, false, Resolver{0x01000010: "DoorMain01"}, nil)
	require.Equal(t, FieldDiffers, fields[0].Status)

	// Both resolve to different names.
	fields = compareFields(sch,
		formIDBytes(0x01000010, false), formIDBytes(0x02000010, false),
		false, false,
		Resolver{0x01000010: "DoorMain01"}, Resolver{0x02000010: "DoorSide02"})
	require.Equal(t, FieldDiffers, fields[0].Status)
}

func TestCompareFieldsFormIDCrossEncoding(t *testing.T) {
	// The same FormID encoded little- and big-endian is a raw match once each
	// side is read under its own byte order.
	sch := refrNameSchema(t)
	fields := compareFields(sch,
		formIDBytes(0x00000123, false), formIDBytes(0x00000123, true),
		false, true, nil, nil)
	require.Len(t, fields, 1)
	require.Equal(t, FieldMatch, fields[0].Status)
	require.Equal(t, "0x00000123", fields[0].ValueA)
	require.Equal(t, fields[0].ValueA, fields[0].ValueB)
}

func TestCompareFieldsValueKinds(t *testing.T) {
	sch := schema.DefaultRegistry().Get("DATA", "REFR", 24)
	require.NotNil(t, sch)

	mk := func(big bool, vals [6]float32) []byte {
		buf := make([]byte, 24)
		for i, f := range vals {
			format.PutF32(buf, i*4, f, big)
		}
		return buf
	}
	same := [6]float32{1, 2, 3, 0, 90, 180}
	moved := [6]float32{1, 2, 4, 0, 90, 180}

	fields := compareFields(sch, mk(false, same), mk(true, same), false, true, nil, nil)
	require.Len(t, fields, 1)
	require.Equal(t, FieldMatch, fields[0].Status)

	fields = compareFields(sch, mk(false, same), mk(false, moved), false, false, nil, nil)
	require.Equal(t, FieldDiffers, fields[0].Status)
	require.NotEqual(t, fields[0].ValueA, fields[0].ValueB)
}

func TestCompareFieldsDecodeFailureIsOpaque(t *testing.T) {
	sch := refrNameSchema(t)
	require.Nil(t, compareFields(sch, []byte{1, 2}, formIDBytes(1, false), false, false, nil, nil))
	require.Nil(t, compareFields(sch, formIDBytes(1, false), []byte{1, 2}, false, false, nil, nil))
}
