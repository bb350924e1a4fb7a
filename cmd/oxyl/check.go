package main

import (
	"fmt"
	"oxyl/internal/diag"
	"oxyl/internal/resolve"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report unbound and shadowed names",
		Long: `Parse a source file and resolve every name in it. Findings are
warnings and do not change the exit status unless --strict is given. Names
listed under [check] globals in the config count as bound everywhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			name := displayName(args[0])
			file, err := a.parseSource(cmd, source, name)
			if err != nil {
				return err
			}

			diags := resolve.Check(file, a.cfg.CheckOptions())
			if len(diags) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no problems found\n", name)
				return nil
			}
			w := cmd.ErrOrStderr()
			if err := diag.RenderAll(w, source, name, diags, diag.NewStyles(w)); err != nil {
				return err
			}
			a.log.Debug("checked", "path", name, "findings", len(diags))
			if strict || diag.HasErrors(diags) {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when there are warnings")
	return cmd
}
