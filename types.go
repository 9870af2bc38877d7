package binpack

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rawbytedev/binpack/internal/common"
)

// TypeTag identifies the wire representation of a single field.
type TypeTag uint8

const (
	invalidType TypeTag = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	VarString
)

// Endianness selects the byte order of multi-byte integers.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

var typeNames = map[string]TypeTag{
	"int8": Int8, "uint8": UInt8,
	"int16": Int16, "uint16": UInt16,
	"int32": Int32, "uint32": UInt32,
	"int64": Int64, "uint64": UInt64,

	"int8_t": Int8, "uint8_t": UInt8,
	"int16_t": Int16, "uint16_t": UInt16,
	"int32_t": Int32, "uint32_t": UInt32,
	"int64_t": Int64, "uint64_t": UInt64,

	// single letter format aliases
	"b": Int8, "B": UInt8,
	"h": Int16, "H": UInt16,
	"i": Int32, "I": UInt32,
	"q": Int64, "Q": UInt64,

	"string": VarString, "s": VarString,
}

var endianNames = map[string]Endianness{
	"little": LittleEndian, "<": LittleEndian,
	"big": BigEndian, ">": BigEndian,
}

// ResolveType maps a symbolic type name to its tag.
func ResolveType(name string) (TypeTag, error) {
	if t, ok := typeNames[name]; ok {
		return t, nil
	}
	// single letters are case sensitive, descriptive names are not
	if len(name) > 1 {
		if t, ok := typeNames[strings.ToLower(name)]; ok {
			return t, nil
		}
	}
	return invalidType, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// ResolveEndianness maps a symbolic byte order name to its value.
func ResolveEndianness(name string) (Endianness, error) {
	if e, ok := endianNames[strings.ToLower(name)]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedEndianness, name)
}

// Valid reports whether t is one of the known tags.
func (t TypeTag) Valid() bool {
	return t >= Int8 && t <= VarString
}

// Fixed reports whether t has a fixed encoded width.
func (t TypeTag) Fixed() bool {
	return t.Valid() && t != VarString
}

// Signed reports whether t is a two's-complement integer.
func (t TypeTag) Signed() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// Width is the encoded byte width of a numeric tag, 0 otherwise.
func (t TypeTag) Width() int {
	switch t {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32:
		return 4
	case Int64, UInt64:
		return 8
	default:
		return 0
	}
}

func (t TypeTag) String() string {
	switch t {
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case VarString:
		return "string"
	default:
		return fmt.Sprintf("TypeTag(%d)", uint8(t))
	}
}

// CType is the C declaration type used by NativeStruct.
func (t TypeTag) CType() string {
	if t == VarString {
		return "char *"
	}
	return t.String() + "_t"
}

func (t TypeTag) numeric() error {
	if !t.Fixed() {
		return fmt.Errorf("%w: %s is not numeric", ErrUnsupportedType, t)
	}
	return nil
}

// Valid reports whether e is one of the known byte orders.
func (e Endianness) Valid() bool {
	return e == LittleEndian || e == BigEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("Endianness(%d)", uint8(e))
	}
}

func (e Endianness) order() (common.Order, error) {
	switch e {
	case LittleEndian:
		return binary.LittleEndian, nil
	case BigEndian:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEndianness, e)
	}
}
