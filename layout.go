package binpack

import (
	"fmt"
	"strings"
)

// SizeOf returns the encoded size of any record of an all-numeric schema.
func SizeOf(s Schema, e Endianness) (int, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEndianness, e)
	}
	n := 0
	for _, f := range s.fields {
		if !f.Type.Fixed() {
			return 0, fmt.Errorf("%w: field %q is %s", ErrSchemaSize, f.Name, f.Type)
		}
		n += f.Type.Width()
	}
	return n, nil
}

// NativeStruct renders s as a packed C struct declaration named name.
// String fields appear as char pointers. The output is informational and
// is never read back.
func NativeStruct(s Schema, name string, e Endianness) (string, error) {
	if !e.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEndianness, e)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "/* %s-endian", e)
	if size, err := SizeOf(s, e); err == nil {
		fmt.Fprintf(&b, ", %d bytes", size)
	}
	b.WriteString(" */\n")
	fmt.Fprintf(&b, "typedef struct _%s {\n", name)
	for _, f := range s.fields {
		fmt.Fprintf(&b, "\t%s %s;\n", f.Type.CType(), f.Name)
	}
	fmt.Fprintf(&b, "} %s;\n", name)
	return b.String(), nil
}
