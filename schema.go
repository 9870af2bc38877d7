package binpack

import (
	"fmt"
	"strings"
)

// Field is one named, typed slot of a schema.
type Field struct {
	Name string
	Type TypeTag
}

// FieldDef is the unresolved form of a Field, as written in schema
// documents: a name and a symbolic type name.
type FieldDef struct {
	Name string
	Type string
}

// Schema is an ordered, validated list of fields. The order is the wire
// order for both encoding and decoding. A Schema is immutable once built.
type Schema struct {
	fields []Field
}

// NewSchema validates fields and returns a schema in the given order.
// Names must be non-empty and unique; tags must be known.
func NewSchema(fields ...Field) (Schema, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("%w: field %d has no name", ErrInvalidSchema, i)
		}
		if _, dup := seen[f.Name]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		if !f.Type.Valid() {
			return Schema{}, fmt.Errorf("field %q: %w: %s", f.Name, ErrUnsupportedType, f.Type)
		}
		seen[f.Name] = struct{}{}
		out[i] = f
	}
	return Schema{fields: out}, nil
}

// ParseSchema resolves every type name once and builds a schema.
func ParseSchema(defs ...FieldDef) (Schema, error) {
	fields := make([]Field, len(defs))
	for i, d := range defs {
		t, err := ResolveType(d.Type)
		if err != nil {
			return Schema{}, fmt.Errorf("field %q: %w", d.Name, err)
		}
		fields[i] = Field{Name: d.Name, Type: t}
	}
	return NewSchema(fields...)
}

// MustSchema is like NewSchema but panics on error. Meant for package
// level schema literals.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len is the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Field returns the i-th field.
func (s Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Fixed reports whether every field has a fixed width.
func (s Schema) Fixed() bool {
	for _, f := range s.fields {
		if !f.Type.Fixed() {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}
