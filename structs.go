package binpack

import (
	"fmt"
	"reflect"
)

// Struct fields map to schema fields in declaration order. The field name
// is taken from the `binpack:"name"` tag when present, `binpack:"-"` skips
// the field, and unexported fields are skipped.

type structField struct {
	idx  int
	name string
	kind reflect.Kind
	tag  TypeTag
}

func tagOfKind(t reflect.Type) (TypeTag, bool) {
	switch t.Kind() {
	case reflect.Int8:
		return Int8, true
	case reflect.Uint8:
		return UInt8, true
	case reflect.Int16:
		return Int16, true
	case reflect.Uint16:
		return UInt16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Uint32:
		return UInt32, true
	case reflect.Int64, reflect.Int:
		return Int64, true
	case reflect.Uint64, reflect.Uint:
		return UInt64, true
	case reflect.String:
		return VarString, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return VarString, true
		}
	}
	return invalidType, false
}

// planStruct walks t on every call. There is no plan cache.
func planStruct(t reflect.Type) ([]structField, error) {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // skip unexported
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("binpack"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		tt, ok := tagOfKind(sf.Type)
		if !ok {
			return nil, fmt.Errorf("%w: field %s has kind %s", ErrUnsupportedType, sf.Name, sf.Type.Kind())
		}
		fields = append(fields, structField{idx: i, name: name, kind: sf.Type.Kind(), tag: tt})
	}
	return fields, nil
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return rv, nil
}

// SchemaOf derives a schema from the struct type of v.
func SchemaOf(v any) (Schema, error) {
	rv, err := structValue(v)
	if err != nil {
		return Schema{}, err
	}
	plan, err := planStruct(rv.Type())
	if err != nil {
		return Schema{}, err
	}
	fields := make([]Field, len(plan))
	for i, p := range plan {
		fields[i] = Field{Name: p.name, Type: p.tag}
	}
	return NewSchema(fields...)
}

// RecordOf copies the mapped fields of struct v into a Record.
func RecordOf(v any) (Record, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	plan, err := planStruct(rv.Type())
	if err != nil {
		return nil, err
	}
	r := make(Record, len(plan))
	for _, p := range plan {
		fv := rv.Field(p.idx)
		switch {
		case p.kind == reflect.Slice:
			b := make([]byte, fv.Len())
			copy(b, fv.Bytes())
			r[p.name] = b
		case p.kind == reflect.String:
			r[p.name] = fv.String()
		case p.tag.Signed():
			r[p.name] = fv.Int()
		default:
			r[p.name] = fv.Uint()
		}
	}
	return r, nil
}

// Decode stores the record's values into the struct pointed to by out.
func (r Record) Decode(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := rv.Elem()
	plan, err := planStruct(dst.Type())
	if err != nil {
		return err
	}
	for _, p := range plan {
		v, ok := r[p.name]
		if !ok {
			return &FieldError{Field: p.name, Err: ErrMissingField}
		}
		if err := setField(dst.Field(p.idx), p.kind, v); err != nil {
			return &FieldError{Field: p.name, Err: err}
		}
	}
	return nil
}

func setField(fv reflect.Value, k reflect.Kind, v any) error {
	switch k {
	case reflect.String:
		switch s := v.(type) {
		case string:
			fv.SetString(s)
		case []byte:
			fv.SetString(string(s))
		default:
			return fmt.Errorf("%w: %T into string", ErrUnsupportedType, v)
		}
		return nil
	case reflect.Slice:
		var b []byte
		switch s := v.(type) {
		case string:
			b = []byte(s)
		case []byte:
			b = make([]byte, len(s))
			copy(b, s)
		default:
			return fmt.Errorf("%w: %T into []byte", ErrUnsupportedType, v)
		}
		fv.SetBytes(b)
		return nil
	}

	s, u, neg, ok := integerOf(v)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrUnsupportedType, v, k)
	}
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !neg && u > 1<<63-1 {
			return fmt.Errorf("%w: %d into %s", ErrOverflow, u, k)
		}
		if !neg {
			s = int64(u)
		}
		if fv.OverflowInt(s) {
			return fmt.Errorf("%w: %d into %s", ErrOverflow, s, k)
		}
		fv.SetInt(s)
	default:
		if neg || fv.OverflowUint(u) {
			return fmt.Errorf("%w: %v into %s", ErrOverflow, v, k)
		}
		fv.SetUint(u)
	}
	return nil
}

// integerOf splits any Go integer into either a negative int64 (neg set)
// or a non-negative uint64.
func integerOf(v any) (s int64, u uint64, neg bool, ok bool) {
	switch n := v.(type) {
	case int:
		s = int64(n)
	case int8:
		s = int64(n)
	case int16:
		s = int64(n)
	case int32:
		s = int64(n)
	case int64:
		s = n
	case uint:
		return 0, uint64(n), false, true
	case uint8:
		return 0, uint64(n), false, true
	case uint16:
		return 0, uint64(n), false, true
	case uint32:
		return 0, uint64(n), false, true
	case uint64:
		return 0, n, false, true
	default:
		return 0, 0, false, false
	}
	if s < 0 {
		return s, 0, true, true
	}
	return 0, uint64(s), false, true
}
