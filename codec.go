package binpack

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/rawbytedev/binpack/internal/common"
)

const DefaultEncoding = "utf-8"

// Options configures a Codec. The zero value is valid and equals
// DefaultOptions.
type Options struct {
	Endian     Endianness
	Encoding   string  // text encoding for string values given as Go strings
	LengthType TypeTag // integer type of string length prefixes
}

// DefaultOptions is little-endian, utf-8 text and 64-bit unsigned length prefixes.
func DefaultOptions() Options {
	return Options{Endian: LittleEndian, Encoding: DefaultEncoding, LengthType: UInt64}
}

// Codec packs and unpacks records against caller supplied schemas. It holds
// no mutable state and is safe for concurrent use.
type Codec struct {
	opts  Options
	order common.Order
	text  encoding.Encoding // nil means utf-8 pass-through
}

// NewCodec validates opts and resolves the text encoding once.
func NewCodec(opts Options) (*Codec, error) {
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
	if opts.LengthType == invalidType {
		opts.LengthType = UInt64
	}
	order, err := opts.Endian.order()
	if err != nil {
		return nil, err
	}
	if err := opts.LengthType.numeric(); err != nil {
		return nil, fmt.Errorf("length type: %w", err)
	}
	text, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Codec{opts: opts, order: order, text: text}, nil
}

// MustCodec is like NewCodec but panics on error.
func MustCodec(opts Options) *Codec {
	c, err := NewCodec(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Options returns the resolved options.
func (c *Codec) Options() Options { return c.opts }

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	return enc, nil
}

// textBytes normalizes a string field value to raw bytes. Byte slices pass
// through untouched; strings go through the configured text encoding.
func (c *Codec) textBytes(v any) ([]byte, error) {
	switch s := v.(type) {
	case []byte:
		return s, nil
	case string:
		if c.text == nil {
			return []byte(s), nil
		}
		b, err := c.text.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedEncoding, c.opts.Encoding, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T for string field", ErrUnsupportedType, v)
	}
}
