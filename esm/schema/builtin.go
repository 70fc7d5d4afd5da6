package schema

import "sync"

// DefaultRegistry returns the built-in table of reverse-engineered layouts.
// The table is constructed once and shared; it is immutable, so handing the
// same instance to concurrent scans is safe.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(builtinSchemas()...)
	if err != nil {
		// The built-in table is static data; a failure here is a programming
		// error caught by the table-consistency test.
		panic(err)
	}
	return r
})

// builtinSchemas lists the layouts confirmed against both encodings. The
// table is deliberately incomplete: unknown subrecords stay opaque rather
// than guessed at.
func builtinSchemas() []SubrecordSchema {
	editorID := func(owner string) SubrecordSchema {
		return SubrecordSchema{Signature: "EDID", Owner: owner, Fields: []FieldSchema{
			{Name: "editorId", Kind: ZString},
		}}
	}
	displayName := func(owner string) SubrecordSchema {
		return SubrecordSchema{Signature: "FULL", Owner: owner, Fields: []FieldSchema{
			{Name: "name", Kind: ZString},
		}}
	}

	schemas := []SubrecordSchema{
		{Signature: "HEDR", Owner: "TES4", Length: 12, Fields: []FieldSchema{
			{Name: "version", Kind: Float32},
			{Name: "numRecords", Kind: UInt32},
			{Name: "nextObjectId", Kind: UInt32},
		}},
		{Signature: "CNAM", Owner: "TES4", Fields: []FieldSchema{
			{Name: "author", Kind: ZString},
		}},

		// Placed references.
		{Signature: "NAME", Owner: "REFR", Length: 4, Fields: []FieldSchema{
			{Name: "base", Kind: FormID},
		}},
		{Signature: "DATA", Owner: "REFR", Length: 24, Fields: []FieldSchema{
			{Name: "placement", Kind: PosRot},
		}},
		{Signature: "XSCL", Owner: "REFR", Length: 4, Fields: []FieldSchema{
			{Name: "scale", Kind: Float32},
		}},
		{Signature: "XTEL", Owner: "REFR", Length: 28, Fields: []FieldSchema{
			{Name: "destinationDoor", Kind: FormID},
			{Name: "destination", Kind: PosRot},
		}},
		{Signature: "XESP", Owner: "REFR", Length: 8, Fields: []FieldSchema{
			{Name: "parent", Kind: FormID},
			{Name: "flags", Kind: UInt32},
		}},
		{Signature: "XCNT", Owner: "REFR", Length: 4, Fields: []FieldSchema{
			{Name: "count", Kind: Int32},
		}},

		// Placed actors.
		{Signature: "NAME", Owner: "ACHR", Length: 4, Fields: []FieldSchema{
			{Name: "base", Kind: FormID},
		}},
		{Signature: "DATA", Owner: "ACHR", Length: 24, Fields: []FieldSchema{
			{Name: "placement", Kind: PosRot},
		}},

		// Actors.
		{Signature: "ACBS", Owner: "NPC_", Length: 16, Fields: []FieldSchema{
			{Name: "flags", Kind: UInt32},
			{Name: "baseSpellPoints", Kind: UInt16},
			{Name: "fatigue", Kind: UInt16},
			{Name: "barterGold", Kind: UInt16},
			{Name: "level", Kind: Int16},
			{Name: "calcMin", Kind: UInt16},
			{Name: "calcMax", Kind: UInt16},
		}},
		{Signature: "AIDT", Owner: "NPC_", Length: 12, Fields: []FieldSchema{
			{Name: "aggression", Kind: UInt8},
			{Name: "confidence", Kind: UInt8},
			{Name: "energy", Kind: UInt8},
			{Name: "responsibility", Kind: UInt8},
			{Name: "flags", Kind: UInt32},
			{Name: "trainSkill", Kind: UInt8},
			{Name: "trainLevel", Kind: UInt8},
			{Name: "unused", Kind: UInt16},
		}},
		{Signature: "RNAM", Owner: "NPC_", Length: 4, Fields: []FieldSchema{
			{Name: "race", Kind: FormID},
		}},
		{Signature: "CNAM", Owner: "NPC_", Length: 4, Fields: []FieldSchema{
			{Name: "class", Kind: FormID},
		}},

		// Cells and worldspaces.
		{Signature: "XCLC", Owner: "CELL", Length: 8, Fields: []FieldSchema{
			{Name: "gridX", Kind: Int32},
			{Name: "gridY", Kind: Int32},
		}},
		{Signature: "XCLL", Owner: "CELL", Length: 36, Fields: []FieldSchema{
			{Name: "ambient", Kind: ColorRGBA},
			{Name: "directional", Kind: ColorRGBA},
			{Name: "fog", Kind: ColorRGBA},
			{Name: "fogNear", Kind: Float32},
			{Name: "fogFar", Kind: Float32},
			{Name: "rotationXY", Kind: Int32},
			{Name: "rotationZ", Kind: Int32},
			{Name: "directionalFade", Kind: Float32},
			{Name: "fogClipDistance", Kind: Float32},
		}},
		{Signature: "XCWT", Owner: "CELL", Length: 4, Fields: []FieldSchema{
			{Name: "water", Kind: FormID},
		}},
		{Signature: "WNAM", Owner: "WRLD", Length: 4, Fields: []FieldSchema{
			{Name: "parentWorld", Kind: FormID},
		}},
		{Signature: "CNAM", Owner: "WRLD", Length: 4, Fields: []FieldSchema{
			{Name: "climate", Kind: FormID},
		}},
		{Signature: "NAM2", Owner: "WRLD", Length: 4, Fields: []FieldSchema{
			{Name: "water", Kind: FormID},
		}},

		// Doors.
		{Signature: "SNAM", Owner: "DOOR", Length: 4, Fields: []FieldSchema{
			{Name: "openSound", Kind: FormID},
		}},
		{Signature: "ANAM", Owner: "DOOR", Length: 4, Fields: []FieldSchema{
			{Name: "closeSound", Kind: FormID},
		}},

		// Lights.
		{Signature: "DATA", Owner: "LIGH", Length: 32, Fields: []FieldSchema{
			{Name: "time", Kind: Int32},
			{Name: "radius", Kind: UInt32},
			{Name: "color", Kind: ColorRGBA},
			{Name: "flags", Kind: UInt32},
			{Name: "falloffExponent", Kind: Float32},
			{Name: "fov", Kind: Float32},
			{Name: "value", Kind: UInt32},
			{Name: "weight", Kind: Float32},
		}},

		// Containers.
		{Signature: "CNTO", Owner: "CONT", Length: 8, Fields: []FieldSchema{
			{Name: "item", Kind: FormID},
			{Name: "count", Kind: Int32},
		}},
	}

	for _, owner := range []string{"NPC_", "WEAP", "DOOR", "CELL", "WRLD", "GMST", "ARMO", "MISC", "CONT", "LIGH", "REFR"} {
		schemas = append(schemas, editorID(owner))
	}
	for _, owner := range []string{"NPC_", "WEAP", "DOOR", "CELL", "ARMO", "MISC", "CONT", "LIGH"} {
		schemas = append(schemas, displayName(owner))
	}
	return schemas
}
