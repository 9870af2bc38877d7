package schemafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/binpack"
)

const personDoc = `
name: person
endianness: big
length_type: uint16_t
fields:
  name: string
  age: int8_t
  height: int32_t
  surname: string
  weight: int8_t
`

func TestParseMapping(t *testing.T) {
	d, err := Parse([]byte(personDoc))
	require.NoError(t, err)
	assert.Equal(t, "person", d.Name)

	s, err := d.Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "height", "surname", "weight"}, s.Names())
	assert.Equal(t, binpack.Field{Name: "height", Type: binpack.Int32}, s.Field(2))

	opts, err := d.Options()
	require.NoError(t, err)
	assert.Equal(t, binpack.Options{Endian: binpack.BigEndian, Encoding: "utf-8", LengthType: binpack.UInt16}, opts)
}

func TestParseSequence(t *testing.T) {
	doc := `
fields:
  - {name: z, type: Q}
  - {name: a, type: s}
`
	d, err := Parse([]byte(doc))
	require.NoError(t, err)
	s, err := d.Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, s.Names())

	opts, err := d.Options()
	require.NoError(t, err)
	assert.Equal(t, binpack.DefaultOptions(), opts)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("name: empty\n"))
	require.ErrorIs(t, err, ErrNoFields)

	_, err = Parse([]byte("fields: 12\n"))
	require.Error(t, err)

	_, err = Parse([]byte("fields:\n  a: [int8]\n"))
	require.Error(t, err)

	d, err := Parse([]byte("fields:\n  a: float\n"))
	require.NoError(t, err)
	_, err = d.Schema()
	require.ErrorIs(t, err, binpack.ErrUnsupportedType)

	d, err = Parse([]byte("endianness: sideways\nfields:\n  a: int8\n"))
	require.NoError(t, err)
	_, err = d.Options()
	require.ErrorIs(t, err, binpack.ErrUnsupportedEndianness)

	d, err = Parse([]byte("length_type: string\nfields:\n  a: int8\n"))
	require.NoError(t, err)
	opts, err := d.Options()
	require.NoError(t, err)
	_, err = binpack.NewCodec(opts)
	require.ErrorIs(t, err, binpack.ErrUnsupportedType)
}

func TestMarshalKeepsOrder(t *testing.T) {
	d, err := Parse([]byte(personDoc))
	require.NoError(t, err)
	out, err := d.Marshal()
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "person.yaml")
	require.NoError(t, os.WriteFile(path, []byte(personDoc), 0o600))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, d.Fields, 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentDrivesCodec(t *testing.T) {
	d, err := Parse([]byte(personDoc))
	require.NoError(t, err)
	s, err := d.Schema()
	require.NoError(t, err)
	opts, err := d.Options()
	require.NoError(t, err)
	c, err := binpack.NewCodec(opts)
	require.NoError(t, err)

	packed, size, err := c.EncodeRecord(binpack.Record{
		"name": "name 1", "age": 34, "height": 177, "surname": "surname 1", "weight": 86,
	}, s)
	require.NoError(t, err)
	// two 2-byte prefixes instead of 8-byte ones
	assert.Equal(t, 37-12, size)
	assert.Equal(t, []byte{0, 6}, packed[:2])
}
