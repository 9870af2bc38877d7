package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendReadUint(t *testing.T) {
	cases := []struct {
		width int
		order Order
		x     uint64
		want  []byte
	}{
		{1, binary.LittleEndian, 0xAB, []byte{0xAB}},
		{2, binary.LittleEndian, 0x0102, []byte{0x02, 0x01}},
		{2, binary.BigEndian, 0x0102, []byte{0x01, 0x02}},
		{4, binary.LittleEndian, 0x01020304, []byte{0x04, 0x03, 0x02, 0x01}},
		{4, binary.BigEndian, 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{8, binary.BigEndian, 0x0102030405060708, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, c := range cases {
		got := AppendUint(nil, c.width, c.order, c.x)
		require.Equal(t, c.want, got)
		assert.Equal(t, c.x, ReadUint(got, c.width, c.order))
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int64(-1), SignExtend(0xFF, 1))
	assert.Equal(t, int64(127), SignExtend(0x7F, 1))
	assert.Equal(t, int64(-32768), SignExtend(0x8000, 2))
	assert.Equal(t, int64(-2), SignExtend(0xFFFFFFFE, 4))
	assert.Equal(t, int64(math.MinInt64), SignExtend(1<<63, 8))
}

func TestBounds(t *testing.T) {
	lo, hi := SignedBounds(1)
	assert.Equal(t, int64(-128), lo)
	assert.Equal(t, int64(127), hi)
	lo, hi = SignedBounds(8)
	assert.Equal(t, int64(math.MinInt64), lo)
	assert.Equal(t, int64(math.MaxInt64), hi)

	assert.Equal(t, uint64(65535), UnsignedMax(2))
	assert.Equal(t, uint64(math.MaxUint64), UnsignedMax(8))

	assert.True(t, FitsSigned(-128, 1))
	assert.False(t, FitsSigned(300, 1))
	assert.True(t, FitsUnsigned(255, 1))
	assert.False(t, FitsUnsigned(256, 1))
}
