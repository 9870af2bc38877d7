package binpack

import (
	"fmt"
)

// Record is one logical struct instance keyed by field name.
//
// On encode, numeric fields accept any Go integer type and string fields
// accept string or []byte. On decode, signed fields come back as int64,
// unsigned fields as uint64 and string fields as []byte.
type Record map[string]any

// Layout of one record, fields in schema order:
//
//	numeric: [width bytes]
//	string:  [length prefix][raw bytes]
//
// No header, terminator or padding.

// EncodeRecord packs r in schema order and returns the bytes and their size.
// Keys of r that are not in the schema are ignored.
func (c *Codec) EncodeRecord(r Record, s Schema) ([]byte, int, error) {
	buf, err := c.AppendRecord(nil, r, s)
	if err != nil {
		return nil, 0, err
	}
	return buf, len(buf), nil
}

// AppendRecord appends the encoding of r to dst. On error dst is returned
// with its original length.
func (c *Codec) AppendRecord(dst []byte, r Record, s Schema) ([]byte, error) {
	start := len(dst)
	buf := dst
	for _, f := range s.fields {
		v, ok := r[f.Name]
		if !ok {
			return dst[:start], &FieldError{Field: f.Name, Offset: len(buf) - start, Err: ErrMissingField}
		}
		var err error
		buf, err = c.appendField(buf, f, v)
		if err != nil {
			return dst[:start], &FieldError{Field: f.Name, Offset: len(buf) - start, Err: err}
		}
	}
	return buf, nil
}

func (c *Codec) appendField(buf []byte, f Field, v any) ([]byte, error) {
	if f.Type == VarString {
		raw, err := c.textBytes(v)
		if err != nil {
			return buf, err
		}
		buf, err = appendUint64(buf, c.opts.LengthType, c.order, uint64(len(raw)))
		if err != nil {
			return buf, fmt.Errorf("length prefix: %w", err)
		}
		return append(buf, raw...), nil
	}
	s, u, neg, ok := integerOf(v)
	if !ok {
		return buf, fmt.Errorf("%w: %T for %s field", ErrUnsupportedType, v, f.Type)
	}
	if neg {
		return appendInt64(buf, f.Type, c.order, s)
	}
	return appendUint64(buf, f.Type, c.order, u)
}

// DecodeRecord unpacks one record from buf starting at offset and returns
// it with the offset just past its last byte. The bytes carry no schema;
// decoding with a schema other than the one used to encode misaligns
// silently.
func (c *Codec) DecodeRecord(buf []byte, s Schema, offset int) (Record, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, offset, fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrBufferUnderrun, offset, len(buf))
	}
	r := make(Record, len(s.fields))
	off := offset
	for _, f := range s.fields {
		v, next, err := c.readField(buf, off, f)
		if err != nil {
			return nil, offset, &FieldError{Field: f.Name, Offset: off, Err: err}
		}
		r[f.Name] = v
		off = next
	}
	return r, off, nil
}

func (c *Codec) readField(buf []byte, off int, f Field) (any, int, error) {
	if f.Type != VarString {
		w := f.Type.Width()
		if len(buf)-off < w {
			return nil, off, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferUnderrun, w, len(buf)-off)
		}
		s, u := readRaw(buf[off:], f.Type, c.order)
		if f.Type.Signed() {
			return s, off + w, nil
		}
		return u, off + w, nil
	}

	lt := c.opts.LengthType
	w := lt.Width()
	if len(buf)-off < w {
		return nil, off, fmt.Errorf("%w: need %d bytes for length prefix, have %d", ErrBufferUnderrun, w, len(buf)-off)
	}
	s, u := readRaw(buf[off:], lt, c.order)
	if lt.Signed() {
		if s < 0 {
			return nil, off, fmt.Errorf("%w: negative length prefix %d", ErrBufferUnderrun, s)
		}
		u = uint64(s)
	}
	off += w
	if u > uint64(len(buf)-off) {
		return nil, off, fmt.Errorf("%w: need %d bytes for string, have %d", ErrBufferUnderrun, u, len(buf)-off)
	}
	n := int(u)
	val := make([]byte, n)
	copy(val, buf[off:off+n])
	return val, off + n, nil
}
