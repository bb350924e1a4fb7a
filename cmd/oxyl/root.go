package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"oxyl/internal/config"
	"oxyl/internal/diag"
	"oxyl/internal/fst"
	"oxyl/internal/parser"

	"github.com/spf13/cobra"
)

// errReported marks a failure whose diagnostics were already printed; main
// only sets the exit status for it.
var errReported = errors.New("diagnostics reported")

// app carries the state shared by every subcommand.
type app struct {
	cfgFile string
	verbose bool

	log *slog.Logger
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "oxyl",
		Short: "oxyl language toolchain",
		Long: `oxyl parses oxyl source into a full syntax tree that keeps every
comment and source span, and lowers it to C.

Settings are read from oxyl.toml (or oxyl.yaml) in the current directory
or one of its parents, or from the file named by --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: discovered oxyl.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newLowerCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
		newBuildCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup configures logging and loads the project config.
func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadOrDefault(a.cfgFile, ".")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Path != "" {
		a.log.Debug("loaded config", "path", cfg.Path)
	} else {
		a.log.Debug("no config file found, using defaults")
	}
	a.cfg = cfg
	return nil
}

// readSource reads a source file, or standard input for "-".
func (a *app) readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	a.log.Debug("read source", "path", path, "bytes", len(data))
	return string(data), nil
}

// parseSource parses source and, on failure, renders the diagnostic to the
// command's stderr and returns errReported.
func (a *app) parseSource(cmd *cobra.Command, source, filename string) (*fst.File, error) {
	file, err := parser.Parse(source)
	if err != nil {
		w := cmd.ErrOrStderr()
		if rerr := diag.Render(w, source, filename, diag.FromParseError(err), diag.NewStyles(w)); rerr != nil {
			return nil, rerr
		}
		return nil, errReported
	}
	a.log.Debug("parsed", "path", filename, "statements", len(file.Statements))
	return file, nil
}

// displayName is the name diagnostics use for path.
func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
