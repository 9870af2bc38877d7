package common

import (
	"encoding/binary"
	"math"
)

// Order is the byte order contract used by the codecs. Both
// binary.LittleEndian and binary.BigEndian satisfy it.
type Order interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// AppendUint appends the low width bytes of x to dst in the given order.
// width must be 1, 2, 4 or 8.
func AppendUint(dst []byte, width int, order Order, x uint64) []byte {
	switch width {
	case 1:
		return append(dst, byte(x))
	case 2:
		return order.AppendUint16(dst, uint16(x))
	case 4:
		return order.AppendUint32(dst, uint32(x))
	case 8:
		return order.AppendUint64(dst, x)
	default:
		panic("common: bad width")
	}
}

// ReadUint reads a width-byte unsigned integer from the front of b.
// The caller checks len(b) >= width.
func ReadUint(b []byte, width int, order Order) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	case 8:
		return order.Uint64(b)
	default:
		panic("common: bad width")
	}
}

// SignExtend interprets the low width bytes of x as a two's-complement value.
func SignExtend(x uint64, width int) int64 {
	shift := uint(64 - 8*width)
	return int64(x<<shift) >> shift
}

// SignedBounds returns the representable range of a signed width-byte integer.
func SignedBounds(width int) (int64, int64) {
	if width >= 8 {
		return math.MinInt64, math.MaxInt64
	}
	hi := int64(1)<<(8*width-1) - 1
	return -hi - 1, hi
}

// UnsignedMax returns the largest value of an unsigned width-byte integer.
func UnsignedMax(width int) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return uint64(1)<<(8*width) - 1
}

// FitsSigned reports whether v is representable in a signed width-byte integer.
func FitsSigned(v int64, width int) bool {
	lo, hi := SignedBounds(width)
	return v >= lo && v <= hi
}

// FitsUnsigned reports whether v is representable in an unsigned width-byte integer.
func FitsUnsigned(v uint64, width int) bool {
	return v <= UnsignedMax(width)
}
