package binpack

import (
	"fmt"
)

// PackedList is the result of EncodeRecordList. Data is the plain
// concatenation of each record's encoding; neither Count nor Sizes are
// embedded in it.
type PackedList struct {
	Data  []byte
	Count int
	Size  int   // len(Data)
	Sizes []int // encoded size of each record, in order
}

// EncodeRecordList packs records back to back. The batch is atomic: if any
// record fails, no bytes are returned.
func (c *Codec) EncodeRecordList(records []Record, s Schema) (PackedList, error) {
	var (
		buf   []byte
		sizes = make([]int, len(records))
		err   error
	)
	for i, r := range records {
		start := len(buf)
		buf, err = c.AppendRecord(buf, r, s)
		if err != nil {
			return PackedList{}, fmt.Errorf("record %d: %w", i, err)
		}
		sizes[i] = len(buf) - start
	}
	if buf == nil {
		buf = []byte{}
	}
	return PackedList{Data: buf, Count: len(records), Size: len(buf), Sizes: sizes}, nil
}

// DecodeRecordList unpacks exactly count records from buf, starting at
// offset 0, and returns them with the number of bytes consumed. Any
// underrun aborts the whole call.
func (c *Codec) DecodeRecordList(buf []byte, s Schema, count int) ([]Record, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative count %d", ErrShapeMismatch, count)
	}
	// count comes from the caller or a frame header; size the slice by
	// what buf can actually hold.
	capacity := min(count, len(buf))
	if n := c.minRecordSize(s); n > 0 {
		capacity = min(count, len(buf)/n)
	}
	out := make([]Record, 0, capacity)
	off := 0
	for i := 0; i < count; i++ {
		r, next, err := c.DecodeRecord(buf, s, off)
		if err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
		off = next
	}
	return out, off, nil
}

// minRecordSize is the encoded size of a record whose strings are all empty.
func (c *Codec) minRecordSize(s Schema) int {
	n := 0
	for _, f := range s.fields {
		if f.Type == VarString {
			n += c.opts.LengthType.Width()
		} else {
			n += f.Type.Width()
		}
	}
	return n
}
