package binpack

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrUnsupportedEndianness = errors.New("unsupported endianness")
	ErrUnsupportedEncoding   = errors.New("unsupported string encoding")
	ErrMissingField          = errors.New("missing field")
	ErrOverflow              = errors.New("value out of range")
	ErrBufferUnderrun        = errors.New("buffer underrun")
	ErrSchemaSize            = errors.New("schema has no fixed size")
	ErrInvalidSchema         = errors.New("invalid schema")
	ErrShapeMismatch         = errors.New("shape mismatch")
	ErrNotStruct             = errors.New("expected struct")
	ErrNotStructPtr          = errors.New("expected pointer to struct")
)

// FieldError reports which schema field a record operation failed on.
type FieldError struct {
	Field  string
	Offset int // byte offset at which the field starts
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
