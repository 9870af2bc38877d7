package binpack

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/rawbytedev/binpack/internal/common"
)

// EncodeScalars packs values as contiguous fixed-width integers of type t.
// Signed tags use two's complement. No padding is written.
func EncodeScalars[T constraints.Integer](values []T, t TypeTag, e Endianness) ([]byte, error) {
	if err := t.numeric(); err != nil {
		return nil, err
	}
	order, err := e.order()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(values)*t.Width())
	for i, v := range values {
		buf, err = appendInteger(buf, t, order, v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return buf, nil
}

// DecodeScalars reads count integers of type t from the start of buf.
// Trailing bytes past count*width are ignored.
func DecodeScalars[T constraints.Integer](buf []byte, count int, t TypeTag, e Endianness) ([]T, error) {
	if err := t.numeric(); err != nil {
		return nil, err
	}
	order, err := e.order()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrShapeMismatch, count)
	}
	w := t.Width()
	if count > len(buf)/w {
		return nil, fmt.Errorf("%w: %d %s need more than the %d bytes available", ErrBufferUnderrun, count, t, len(buf))
	}
	out := make([]T, count)
	for i := range out {
		out[i], err = readInteger[T](buf[i*w:], t, order)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// EncodeMatrix flattens rows in row-major order and packs them with
// EncodeScalars. Every row must have the same length.
func EncodeMatrix[T constraints.Integer](rows [][]T, t TypeTag, e Endianness) ([]byte, error) {
	var flat []T
	if len(rows) > 0 {
		cols := len(rows[0])
		flat = make([]T, 0, len(rows)*cols)
		for i, r := range rows {
			if len(r) != cols {
				return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrShapeMismatch, i, len(r), cols)
			}
			flat = append(flat, r...)
		}
	}
	return EncodeScalars(flat, t, e)
}

// DecodeMatrix decodes rows*cols integers and reshapes them row-major.
func DecodeMatrix[T constraints.Integer](buf []byte, rows, cols int, t TypeTag, e Endianness) ([][]T, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrShapeMismatch, rows, cols)
	}
	if rows != 0 && cols > math.MaxInt/rows {
		return nil, fmt.Errorf("%w: (%d, %d) overflows int", ErrShapeMismatch, rows, cols)
	}
	flat, err := DecodeScalars[T](buf, rows*cols, t, e)
	if err != nil {
		return nil, err
	}
	out := make([][]T, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out, nil
}

func isSigned[T constraints.Integer]() bool {
	return ^T(0) < 0
}

func appendInteger[T constraints.Integer](dst []byte, t TypeTag, order common.Order, v T) ([]byte, error) {
	if isSigned[T]() {
		return appendInt64(dst, t, order, int64(v))
	}
	return appendUint64(dst, t, order, uint64(v))
}

func appendInt64(dst []byte, t TypeTag, order common.Order, v int64) ([]byte, error) {
	w := t.Width()
	if t.Signed() {
		if !common.FitsSigned(v, w) {
			return dst, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
		}
	} else if v < 0 || !common.FitsUnsigned(uint64(v), w) {
		return dst, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
	}
	return common.AppendUint(dst, w, order, uint64(v)), nil
}

func appendUint64(dst []byte, t TypeTag, order common.Order, v uint64) ([]byte, error) {
	w := t.Width()
	if t.Signed() {
		_, hi := common.SignedBounds(w)
		if v > uint64(hi) {
			return dst, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
		}
	} else if !common.FitsUnsigned(v, w) {
		return dst, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
	}
	return common.AppendUint(dst, w, order, v), nil
}

// readRaw decodes one integer of tag t into an int64 (signed tags) or
// uint64 (unsigned tags).
func readRaw(b []byte, t TypeTag, order common.Order) (int64, uint64) {
	w := t.Width()
	u := common.ReadUint(b, w, order)
	if t.Signed() {
		return common.SignExtend(u, w), 0
	}
	return 0, u
}

func readInteger[T constraints.Integer](b []byte, t TypeTag, order common.Order) (T, error) {
	s, u := readRaw(b, t, order)
	if t.Signed() {
		v := T(s)
		if int64(v) != s || (s < 0) != (v < 0) {
			return 0, fmt.Errorf("%w: %d does not fit %T", ErrOverflow, s, v)
		}
		return v, nil
	}
	v := T(u)
	if uint64(v) != u || v < 0 {
		return 0, fmt.Errorf("%w: %d does not fit %T", ErrOverflow, u, v)
	}
	return v, nil
}
