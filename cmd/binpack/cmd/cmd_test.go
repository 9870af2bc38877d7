package cmd

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/binpack"
	"github.com/rawbytedev/binpack/pkg/frame"
)

const schemaDoc = `
name: person
fields:
  name: string
  age: int8_t
  height: int32_t
  surname: string
  weight: int8_t
`

const recordsDoc = `
- {name: name 1, age: 34, height: 177, surname: surname 1, weight: 86}
- {name: name 2, age: 43, height: 187, surname: surname 2, weight: 67}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func fixtures(t *testing.T) (dir, schema, records string) {
	dir = t.TempDir()
	schema = filepath.Join(dir, "person.yaml")
	records = filepath.Join(dir, "people.yaml")
	require.NoError(t, os.WriteFile(schema, []byte(schemaDoc), 0o600))
	require.NoError(t, os.WriteFile(records, []byte(recordsDoc), 0o600))
	return dir, schema, records
}

func TestPackUnpackFramed(t *testing.T) {
	for _, extra := range [][]string{nil, {"--zstd"}} {
		dir, schema, records := fixtures(t)
		bin := filepath.Join(dir, "people.bin")

		args := append([]string{"pack", "-s", schema, "--in", records, "--out", bin}, extra...)
		_, err := run(t, args...)
		require.NoError(t, err)

		out, err := run(t, "unpack", "-s", schema, "--in", bin)
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		var want []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(recordsDoc), &want))
		assert.Equal(t, want, got)
		assert.True(t, strings.HasPrefix(out, "- name: name 1\n  age: 34\n"), out)
	}
}

func TestPackRaw(t *testing.T) {
	dir, schema, records := fixtures(t)
	bin := filepath.Join(dir, "people.bin")

	out, err := run(t, "pack", "-s", schema, "--in", records, "--out", bin, "--raw")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	data, err := os.ReadFile(bin)
	require.NoError(t, err)
	assert.Len(t, data, 2*37)

	_, err = run(t, "unpack", "-s", schema, "--in", bin)
	require.Error(t, err)

	out, err = run(t, "unpack", "-s", schema, "--in", bin, "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "surname: surname 2")
}

func TestPackBadRecord(t *testing.T) {
	dir, schema, _ := fixtures(t)
	records := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(records, []byte("- {name: x, age: 300, height: 1, surname: y, weight: 1}\n"), 0o600))
	bin := filepath.Join(dir, "bad.bin")

	_, err := run(t, "pack", "-s", schema, "--in", records, "--out", bin)
	require.Error(t, err)
	_, statErr := os.Stat(bin)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPackUnquotedStrings(t *testing.T) {
	dir, schema, _ := fixtures(t)
	records := filepath.Join(dir, "numbers.yaml")
	require.NoError(t, os.WriteFile(records, []byte("- {name: 123, age: 1, height: 2, surname: 0x1F, weight: 3}\n"), 0o600))
	bin := filepath.Join(dir, "numbers.bin")

	_, err := run(t, "pack", "-s", schema, "--in", records, "--out", bin)
	require.NoError(t, err)
	out, err := run(t, "unpack", "-s", schema, "--in", bin)
	require.NoError(t, err)
	assert.Contains(t, out, "name: \"123\"")
	assert.Contains(t, out, "surname: \"0x1F\"")
	assert.Contains(t, out, "age: 1\n")
}

func TestUnpackHugeFrameCount(t *testing.T) {
	dir, schema, _ := fixtures(t)
	bin := filepath.Join(dir, "forged.bin")
	sealed, err := frame.Seal([]byte{1, 2, 3}, math.MaxUint32, 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bin, sealed, 0o600))

	_, err = run(t, "unpack", "-s", schema, "--in", bin)
	require.ErrorIs(t, err, binpack.ErrBufferUnderrun)
}

func TestSizeAndCStruct(t *testing.T) {
	dir, schema, _ := fixtures(t)
	_, err := run(t, "size", "-s", schema)
	require.Error(t, err)

	fixed := filepath.Join(dir, "point.yaml")
	require.NoError(t, os.WriteFile(fixed, []byte("name: point\nendianness: big\nfields:\n  x: uint16\n  y: int64\n"), 0o600))
	out, err := run(t, "size", "-s", fixed)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	out, err = run(t, "cstruct", "-s", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "typedef struct _person {\n\tchar * name;\n\tint8_t age;\n")

	out, err = run(t, "cstruct", "-s", fixed, "--name", "pt")
	require.NoError(t, err)
	assert.Contains(t, out, "/* big-endian, 10 bytes */")
	assert.Contains(t, out, "} pt;\n")
}

func TestOverrides(t *testing.T) {
	dir, schema, records := fixtures(t)
	bin := filepath.Join(dir, "people.bin")
	_, err := run(t, "pack", "-s", schema, "--in", records, "--out", bin, "--raw", "--length-type", "uint8", "--endian", "big")
	require.NoError(t, err)
	data, err := os.ReadFile(bin)
	require.NoError(t, err)
	assert.Len(t, data, 2*(37-14))
	assert.Equal(t, byte(6), data[0])

	_, err = run(t, "size", "-s", schema, "--endian", "middle")
	require.Error(t, err)
	_, err = run(t, "size", "-s", schema, "--log-level", "loud")
	require.Error(t, err)
}
