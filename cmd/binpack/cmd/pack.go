package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/binpack"
	"github.com/rawbytedev/binpack/pkg/frame"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		in, out  string
		raw, zst bool
	)
	c := &cobra.Command{
		Use:   "pack",
		Short: "Pack a YAML list of records into a binary buffer",
		Long: `Pack reads a YAML sequence of mappings and writes the packed records.

By default the output is framed with the record count and a CRC so that
unpack needs no --count. With --raw the bare concatenated records are
written and the count is printed instead.

Example:
  binpack pack -s person.yaml --in people.yaml --out people.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw && zst {
				return fmt.Errorf("--zstd needs a framed output, drop --raw")
			}
			records, err := readRecords(in, a.schema)
			if err != nil {
				return err
			}
			packed, err := a.codec.EncodeRecordList(records, a.schema)
			if err != nil {
				return err
			}
			data := packed.Data
			if !raw {
				var flags byte
				if zst {
					flags |= frame.FlagZstd
				}
				if data, err = frame.Seal(packed.Data, packed.Count, flags); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.log.Info("packed",
				"records", packed.Count,
				"payload_bytes", packed.Size,
				"written_bytes", len(data),
				"out", out,
			)
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), packed.Count)
			}
			return nil
		},
	}
	c.Flags().StringVarP(&in, "in", "i", "", "YAML records file")
	c.Flags().StringVarP(&out, "out", "o", "", "binary output file")
	c.Flags().BoolVar(&raw, "raw", false, "write bare records without a frame")
	c.Flags().BoolVar(&zst, "zstd", false, "compress the framed payload with zstd")
	_ = c.MarkFlagRequired("in")
	_ = c.MarkFlagRequired("out")
	return c
}

// readRecords reads a YAML sequence of mappings. Scalars under string
// fields keep their literal text, so `name: 123` packs as "123".
func readRecords(path string, s binpack.Schema) ([]binpack.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return []binpack.Record{}, nil
	}
	list := doc.Content[0]
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: line %d: want a sequence of records", path, list.Line)
	}

	strs := make(map[string]bool, s.Len())
	for _, f := range s.Fields() {
		strs[f.Name] = f.Type == binpack.VarString
	}
	records := make([]binpack.Record, len(list.Content))
	for i, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: line %d: record %d is not a mapping", path, item.Line, i)
		}
		r := make(binpack.Record, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, val := item.Content[j].Value, item.Content[j+1]
			if strs[key] && val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
				r[key] = val.Value
				continue
			}
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("%s: line %d: %w", path, val.Line, err)
			}
			r[key] = v
		}
		records[i] = r
	}
	return records, nil
}
