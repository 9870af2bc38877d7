// Package schemafile reads binpack schemas from YAML documents.
//
// A document lists fields either as an ordered mapping
//
//	name: person
//	endianness: little
//	fields:
//	  name: string
//	  age: int8_t
//
// or as a sequence of {name, type} items. Mapping order is the wire order.
package schemafile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/binpack"
)

var ErrNoFields = errors.New("schema document has no fields")

// Document is the parsed form of a schema file. Empty option fields keep
// the binpack defaults.
type Document struct {
	Name       string    `yaml:"name"`
	Endianness string    `yaml:"endianness"`
	Encoding   string    `yaml:"encoding"`
	LengthType string    `yaml:"length_type"`
	Fields     FieldList `yaml:"fields"`
}

// FieldList keeps fields in document order.
type FieldList []binpack.FieldDef

// UnmarshalYAML accepts a mapping or a sequence of {name, type} items.
func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(FieldList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: field %q: type must be a scalar", v.Line, k.Value)
			}
			out = append(out, binpack.FieldDef{Name: k.Value, Type: v.Value})
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var items []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		}
		if err := node.Decode(&items); err != nil {
			return err
		}
		out := make(FieldList, len(items))
		for i, it := range items {
			out[i] = binpack.FieldDef{Name: it.Name, Type: it.Type}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: fields must be a mapping or a sequence", node.Line)
	}
}

// MarshalYAML writes fields back as an ordered mapping.
func (l FieldList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range l {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Type},
		)
	}
	return node, nil
}

// Parse decodes a schema document.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(d.Fields) == 0 {
		return nil, ErrNoFields
	}
	return &d, nil
}

// Load reads and parses the schema document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Schema resolves every field type.
func (d *Document) Schema() (binpack.Schema, error) {
	return binpack.ParseSchema(d.Fields...)
}

// Options resolves the document's codec options on top of the defaults.
func (d *Document) Options() (binpack.Options, error) {
	opts := binpack.DefaultOptions()
	if d.Endianness != "" {
		e, err := binpack.ResolveEndianness(d.Endianness)
		if err != nil {
			return opts, err
		}
		opts.Endian = e
	}
	if d.Encoding != "" {
		opts.Encoding = d.Encoding
	}
	if d.LengthType != "" {
		t, err := binpack.ResolveType(d.LengthType)
		if err != nil {
			return opts, fmt.Errorf("length_type: %w", err)
		}
		opts.LengthType = t
	}
	return opts, nil
}

// Marshal renders d as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
