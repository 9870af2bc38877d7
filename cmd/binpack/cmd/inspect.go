package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/binpack"
)

func newSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Print the fixed record size of an all-numeric schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := binpack.SizeOf(a.schema, a.codec.Options().Endian)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newCStructCmd(a *app) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "cstruct",
		Short: "Print a C struct declaration for the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = a.doc.Name
			}
			if name == "" {
				name = "record"
			}
			out, err := binpack.NativeStruct(a.schema, name, a.codec.Options().Endian)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "struct name (defaults to the document name)")
	return c
}
