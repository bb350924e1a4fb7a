package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"oxyl/internal/config"
	"oxyl/internal/diag"
	"oxyl/internal/format"
	"oxyl/internal/fst"
	"oxyl/internal/lowering"
	"oxyl/internal/parser"
	"oxyl/internal/resolve"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// replMode selects what the REPL prints for each input.
type replMode int

const (
	modeLower replMode = iota
	modeFST
	modeFormat
	modeCheck
)

var replModes = map[string]replMode{
	":c":     modeLower,
	":fst":   modeFST,
	":fmt":   modeFormat,
	":check": modeCheck,
}

func (m replMode) String() string {
	switch m {
	case modeLower:
		return "c"
	case modeFST:
		return "fst"
	case modeFormat:
		return "fmt"
	case modeCheck:
		return "check"
	default:
		return "unknown"
	}
}

const replHelp = `Enter let statements or a bare expression. Input continues over several
lines while braces or parentheses are open.

  :c       print lowered C (default)
  :fst     print the syntax tree as an s-expression
  :fmt     print formatted source
  :check   print name-resolution warnings
  :help    show this help
  exit     leave the REPL (or Ctrl+D)
`

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(a)
		},
	}
}

// replSession evaluates REPL input independently of the terminal.
type replSession struct {
	cfg    *config.Config
	mode   replMode
	out    io.Writer
	errOut io.Writer
	styles diag.Styles
}

// command handles a ":" directive and reports whether line was one.
func (s *replSession) command(line string) bool {
	word := strings.TrimSpace(line)
	if !strings.HasPrefix(word, ":") {
		return false
	}
	if word == ":help" {
		fmt.Fprint(s.out, replHelp)
		return true
	}
	mode, ok := replModes[word]
	if !ok {
		fmt.Fprintf(s.errOut, "unknown command %s (try :help)\n", word)
		return true
	}
	s.mode = mode
	fmt.Fprintf(s.out, "mode: %s\n", mode)
	return true
}

// eval parses source as statements, or as one expression when it does not
// start with let, and prints it in the current mode.
func (s *replSession) eval(source string) {
	if strings.TrimSpace(source) == "" {
		return
	}
	file, err := parser.Parse(source)
	if err == nil {
		s.print(file)
		return
	}
	if !startsWithLet(source) {
		expr, exprErr := parser.ParseExpression(source)
		if exprErr == nil {
			s.print(expr)
			return
		}
		err = exprErr
	}
	if rerr := diag.Render(s.errOut, source, "<repl>", diag.FromParseError(err), s.styles); rerr != nil {
		fmt.Fprintln(s.errOut, err)
	}
}

func (s *replSession) print(n fst.Node) {
	var out string
	switch s.mode {
	case modeFST:
		out = fst.Sexpr(n)
	case modeFormat:
		out = format.Node(n, s.cfg.FormatOptions())
	case modeCheck:
		v := resolve.New(s.cfg.CheckOptions())
		diags := fst.Accept[[]diag.Diagnostic](n, v)
		if len(diags) == 0 {
			out = "ok"
			break
		}
		diag.Sort(diags)
		parts := make([]string, len(diags))
		for i, d := range diags {
			parts[i] = d.String()
		}
		out = strings.Join(parts, "\n")
	default:
		out = fst.Accept[string](n, lowering.New(s.cfg.LowerOptions()))
	}
	if out != "" {
		fmt.Fprintln(s.out, out)
	}
}

func startsWithLet(source string) bool {
	trimmed := strings.TrimSpace(source)
	if !strings.HasPrefix(trimmed, "let") {
		return false
	}
	rest := trimmed[len("let"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r'
}

// nesting returns how many braces and parentheses line opens minus how many
// it closes, ignoring anything after a line comment.
func nesting(line string) int {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.Count(line, "{") + strings.Count(line, "(") -
		strings.Count(line, "}") - strings.Count(line, ")")
}

func runRepl(a *app) error {
	// Determine history file path (~/.oxyl_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".oxyl_history")
	}

	r := lipgloss.NewRenderer(os.Stdout)
	prompt := r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Render("oxyl> ")
	cont := r.NewStyle().Foreground(diag.ColorMuted).Render("...   ")
	banner := r.NewStyle().Foreground(diag.ColorAccent).Bold(true).Render("oxyl REPL")
	hint := r.NewStyle().Foreground(diag.ColorMuted).Render("(type :help for commands, 'exit' or Ctrl+D to quit)")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n", banner, hint)

	session := &replSession{
		cfg:    a.cfg,
		out:    rl.Stdout(),
		errOut: rl.Stderr(),
		styles: diag.NewStyles(os.Stderr),
	}
	var accumulated strings.Builder
	depth := 0

	for {
		if depth > 0 {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if depth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					depth = 0
					continue
				}
				fmt.Fprintln(rl.Stdout(), hint)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
				return nil
			}
			return err
		}

		if depth == 0 {
			if strings.TrimSpace(line) == "exit" {
				return nil
			}
			if session.command(line) {
				continue
			}
		}

		depth += nesting(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if depth > 0 {
			continue
		}
		depth = 0

		source := accumulated.String()
		accumulated.Reset()
		a.log.Debug("repl eval", "bytes", len(source), "mode", session.mode)
		session.eval(source)
	}
}
