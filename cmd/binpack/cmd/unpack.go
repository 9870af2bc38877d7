package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/binpack"
	"github.com/rawbytedev/binpack/pkg/frame"
)

func newUnpackCmd(a *app) *cobra.Command {
	var (
		in    string
		count int
	)
	c := &cobra.Command{
		Use:   "unpack",
		Short: "Unpack a binary buffer into a YAML list of records",
		Long: `Unpack reads a buffer written by pack and prints the records as YAML.

Framed input carries its own record count. For --raw input the count must
be passed with --count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			payload := data
			if count < 0 {
				payload, count, err = frame.Open(data)
				if err != nil {
					return fmt.Errorf("%s: %w (pass --count for raw input)", in, err)
				}
			}
			records, consumed, err := a.codec.DecodeRecordList(payload, a.schema, count)
			if err != nil {
				return err
			}
			if consumed != len(payload) {
				a.log.Warn("trailing bytes after last record", "consumed", consumed, "total", len(payload))
			}
			a.log.Debug("unpacked", "records", len(records), "bytes", consumed)
			return writeRecords(cmd, a.schema, records)
		},
	}
	c.Flags().StringVarP(&in, "in", "i", "", "binary input file")
	c.Flags().IntVarP(&count, "count", "n", -1, "record count for raw input")
	_ = c.MarkFlagRequired("in")
	return c
}

// writeRecords prints records as a YAML sequence with keys in schema order.
func writeRecords(cmd *cobra.Command, s binpack.Schema, records []binpack.Record) error {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range s.Fields() {
			var v yaml.Node
			val := r[f.Name]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			if err := v.Encode(val); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}, &v)
		}
		list.Content = append(list.Content, m)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return err
	}
	return enc.Close()
}
