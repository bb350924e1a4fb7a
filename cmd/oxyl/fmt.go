package main

import (
	"errors"
	"fmt"
	"os"
	"oxyl/internal/format"

	"github.com/spf13/cobra"
)

func newFmtCmd(a *app) *cobra.Command {
	var write, list bool
	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Format source files",
		Long: `Format source files. Without flags the formatted text is printed to
stdout. With -w each file is rewritten in place when its formatting changes;
with -l only the names of files whose formatting would change are printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if (write || list) && path == "-" {
					return errors.New("cannot use -w or -l with standard input")
				}
				source, err := a.readSource(cmd, path)
				if err != nil {
					return err
				}
				file, err := a.parseSource(cmd, source, displayName(path))
				if errors.Is(err, errReported) {
					failed = true
					continue
				}
				if err != nil {
					return err
				}
				out := format.Format(file, a.cfg.FormatOptions())
				changed := out != source

				switch {
				case list:
					if changed {
						fmt.Fprintln(cmd.OutOrStdout(), path)
					}
				case write:
					if !changed {
						a.log.Debug("already formatted", "path", path)
						continue
					}
					if err := writePreservingMode(path, out); err != nil {
						return err
					}
					a.log.Info("formatted", "path", path)
				default:
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the source file")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	return cmd
}

func writePreservingMode(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
