package main

import (
	"fmt"
	"os"
	"oxyl/internal/lowering"
	"time"

	"github.com/spf13/cobra"
)

func newLowerCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "lower <file>",
		Short: "Lower a source file to C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			source, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			file, err := a.parseSource(cmd, source, displayName(args[0]))
			if err != nil {
				return err
			}
			out := lowering.Lower(file, a.cfg.LowerOptions())
			a.log.Debug("lowered", "path", args[0], "elapsed", time.Since(start))

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("cannot write %s: %w", output, err)
			}
			a.log.Info("wrote", "path", output, "bytes", len(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	return cmd
}
