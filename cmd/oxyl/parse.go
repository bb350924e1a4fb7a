package main

import (
	"encoding/json"
	"fmt"
	"io"
	"oxyl/internal/diag"
	"oxyl/internal/fst"
	"oxyl/internal/parser"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newParseCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print its FST",
		Long: `Parse a source file and print its full syntax tree.

The json and yaml formats print an object with the tree under "fst" and any
parse failure under "diagnostics". The sexpr format prints a compact
s-expression, one line per statement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			name := displayName(args[0])
			out := cmd.OutOrStdout()

			switch format {
			case "sexpr":
				file, err := a.parseSource(cmd, source, name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, fst.Sexpr(file))
				return err
			case "json", "yaml":
				file, perr := parser.Parse(source)
				doc := map[string]interface{}{
					"fst":         nil,
					"diagnostics": []diag.Diagnostic{},
				}
				if perr != nil {
					doc["diagnostics"] = []diag.Diagnostic{diag.FromParseError(perr)}
				} else {
					doc["fst"] = fst.NodeToMap(file)
				}
				if err := encodeDocument(out, format, doc); err != nil {
					return err
				}
				if perr != nil {
					return errReported
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json, yaml or sexpr)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or sexpr")
	return cmd
}

// encodeDocument writes v as indented JSON or as YAML.
func encodeDocument(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("YAML encoding failed: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}
