package schema

import (
	"fmt"
)

// FieldSchema describes one field in a subrecord layout.
type FieldSchema struct {
	Name string
	Kind FieldKind

	// Size overrides the kind's default byte size when non-zero. A field
	// whose effective size is zero consumes the remainder of the payload and
	// is only valid in last position.
	Size int
}

// EffectiveSize is the explicit size when given, else the kind's default.
func (f FieldSchema) EffectiveSize() int {
	if f.Size != 0 {
		return f.Size
	}
	return f.Kind.DefaultSize()
}

// SubrecordSchema is a reverse-engineered field layout keyed by subrecord
// signature, owning record type, and optionally an exact payload length
// (zero matches any length).
type SubrecordSchema struct {
	Signature string
	Owner     string
	Length    int
	Fields    []FieldSchema
}

// FixedSize sums the fixed field sizes. open reports whether the layout ends
// in a consume-remainder field.
func (s *SubrecordSchema) FixedSize() (size int, open bool) {
	for i, f := range s.Fields {
		n := f.EffectiveSize()
		if n == 0 {
			// Only meaningful as the trailing field; Validate enforces that.
			open = i == len(s.Fields)-1
			continue
		}
		size += n
	}
	return size, open
}

// Validate checks the layout's internal consistency: at most one
// consume-remainder field, in last position, and a declared exact length
// fully accounted for.
func (s *SubrecordSchema) Validate() error {
	for i, f := range s.Fields {
		if f.EffectiveSize() == 0 && i != len(s.Fields)-1 {
			return fmt.Errorf("schema %s/%s: open-ended field %q not in last position",
				s.Signature, s.Owner, f.Name)
		}
	}
	fixed, open := s.FixedSize()
	if s.Length != 0 {
		if open && fixed >= s.Length {
			return fmt.Errorf("schema %s/%s: fixed fields (%d) leave no remainder for open field in length %d",
				s.Signature, s.Owner, fixed, s.Length)
		}
		if !open && fixed != s.Length {
			return fmt.Errorf("schema %s/%s: fixed fields sum to %d, declared length %d",
				s.Signature, s.Owner, fixed, s.Length)
		}
	}
	return nil
}

// DecodedField is one field decoded from a subrecord payload.
type DecodedField struct {
	Name  string
	Kind  FieldKind
	Raw   []byte
	Value string
}

// Decode splits data into typed fields per the layout and renders each to
// its canonical string. A payload the layout cannot account for exactly is a
// schema mismatch; the caller treats the subrecord as opaque.
func (s *SubrecordSchema) Decode(data []byte, bigEndian bool) ([]DecodedField, error) {
	out := make([]DecodedField, 0, len(s.Fields))
	cursor := 0
	for i, f := range s.Fields {
		size := f.EffectiveSize()
		if size == 0 {
			if i != len(s.Fields)-1 {
				return nil, fmt.Errorf("schema %s/%s: open-ended field %q not last", s.Signature, s.Owner, f.Name)
			}
			size = len(data) - cursor
		}
		if cursor+size > len(data) {
			return nil, fmt.Errorf("schema %s/%s: field %q needs %d bytes at offset %d, payload is %d",
				s.Signature, s.Owner, f.Name, size, cursor, len(data))
		}
		raw := data[cursor : cursor+size]
		value, err := DecodeFieldValue(raw, f.Kind, bigEndian)
		if err != nil {
			return nil, err
		}
		out = append(out, DecodedField{Name: f.Name, Kind: f.Kind, Raw: raw, Value: value})
		cursor += size
	}
	if cursor != len(data) {
		return nil, fmt.Errorf("schema %s/%s: %d payload bytes unaccounted for",
			s.Signature, s.Owner, len(data)-cursor)
	}
	return out, nil
}

type regKey struct {
	sig   string
	owner string
}

// Registry is an immutable schema table. Build it once and pass it
// explicitly; concurrent lookups never contend because nothing is written
// after construction.
type Registry struct {
	entries map[regKey][]*SubrecordSchema
}

// NewRegistry builds a registry from the given schemas. Invalid layouts are
// rejected so a table that constructs is internally consistent.
func NewRegistry(schemas ...SubrecordSchema) (*Registry, error) {
	r := &Registry{entries: make(map[regKey][]*SubrecordSchema, len(schemas))}
	for i := range schemas {
		s := schemas[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		key := regKey{sig: s.Signature, owner: s.Owner}
		r.entries[key] = append(r.entries[key], &s)
	}
	return r, nil
}

// Get resolves the schema for (signature, owner, payloadLength): an exact
// length match wins; otherwise the sole candidate for (signature, owner) is
// used; ambiguity yields nil: opaque, never a guess. This deliberately
// stays conservative when truncation makes the true payload length itself
// suspect.
func (r *Registry) Get(signature, owner string, payloadLength int) *SubrecordSchema {
	candidates := r.entries[regKey{sig: signature, owner: owner}]
	for _, c := range candidates {
		if c.Length != 0 && c.Length == payloadLength {
			return c
		}
	}
	if len(candidates) == 1 && candidates[0].Length == 0 {
		return candidates[0]
	}
	return nil
}

// Schemas returns every registered schema, for table-wide checks.
func (r *Registry) Schemas() []*SubrecordSchema {
	var out []*SubrecordSchema
	for _, list := range r.entries {
		out = append(out, list...)
	}
	return out
}
