package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/binpack"
	"github.com/rawbytedev/binpack/pkg/schemafile"
)

// app is the state shared by subcommands once the schema is loaded.
type app struct {
	schemaPath string
	endian     string
	encoding   string
	lengthType string
	logLevel   string

	log    *slog.Logger
	doc    *schemafile.Document
	schema binpack.Schema
	codec  *binpack.Codec
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "binpack",
		Short: "Pack and unpack schema described binary records",
		Long: `binpack converts between YAML record lists and flat binary buffers
using a YAML schema document for field order, types and byte order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.schemaPath, "schema", "s", "", "schema document (YAML)")
	pf.StringVar(&a.endian, "endian", "", "byte order override: little or big")
	pf.StringVar(&a.encoding, "encoding", "", "text encoding override for string values")
	pf.StringVar(&a.lengthType, "length-type", "", "string length prefix type override")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	_ = root.MarkPersistentFlagRequired("schema")

	root.AddCommand(
		newPackCmd(a),
		newUnpackCmd(a),
		newSizeCmd(a),
		newCStructCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

func (a *app) setup(cmd *cobra.Command) error {
	level, err := parseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	doc, err := schemafile.Load(a.schemaPath)
	if err != nil {
		return err
	}
	if a.endian != "" {
		doc.Endianness = a.endian
	}
	if a.encoding != "" {
		doc.Encoding = a.encoding
	}
	if a.lengthType != "" {
		doc.LengthType = a.lengthType
	}
	schema, err := doc.Schema()
	if err != nil {
		return err
	}
	opts, err := doc.Options()
	if err != nil {
		return err
	}
	codec, err := binpack.NewCodec(opts)
	if err != nil {
		return err
	}
	a.doc, a.schema, a.codec = doc, schema, codec
	a.log.Debug("schema loaded",
		"path", a.schemaPath,
		"fields", schema.String(),
		"endian", opts.Endian.String(),
		"length_type", opts.LengthType.String(),
		"encoding", opts.Encoding,
	)
	return nil
}
