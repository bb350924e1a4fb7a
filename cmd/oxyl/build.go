package main

import (
	"fmt"
	"os"
	"oxyl/internal/lowering"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the oxyl project in this directory",
		Long: `Lower the project's entry file to C and write it to the project's
output path. Both come from the [project] section of the config file; the
output defaults to the entry file with a .c extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateBuild(); err != nil {
				return fmt.Errorf("cannot build: %w", err)
			}
			start := time.Now()
			entry := a.cfg.ResolvePath(a.cfg.Project.Entry)
			source, err := a.readSource(cmd, entry)
			if err != nil {
				return err
			}
			file, err := a.parseSource(cmd, source, entry)
			if err != nil {
				return err
			}
			out := lowering.Lower(file, a.cfg.LowerOptions())

			dest := a.cfg.OutputPath()
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("cannot create output directory: %w", err)
			}
			if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
				return fmt.Errorf("cannot write %s: %w", dest, err)
			}
			a.log.Info("built", "project", a.cfg.Project.Name, "output", dest, "elapsed", time.Since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dest)
			return nil
		},
	}
}
