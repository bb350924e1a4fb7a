package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for rendered diagnostics.
var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorAccent  = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

// Styles holds the lipgloss styles used by Render. The zero value renders
// plain text.
type Styles struct {
	Enabled  bool
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Location lipgloss.Style
	Gutter   lipgloss.Style
	Hint     lipgloss.Style
}

// NewStyles returns colored styles for output written to w. Colors are
// dropped automatically when w is not a terminal.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Enabled:  true,
		Error:    r.NewStyle().Foreground(ColorError).Bold(true),
		Warning:  r.NewStyle().Foreground(ColorWarning).Bold(true),
		Location: r.NewStyle().Foreground(ColorAccent),
		Gutter:   r.NewStyle().Foreground(ColorMuted),
		Hint:     r.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	return Styles{}
}

func (s Styles) paint(st lipgloss.Style, text string) string {
	if !s.Enabled {
		return text
	}
	return st.Render(text)
}

// Render writes d with the offending source line and a caret row:
//
//	error[E2001]: expected identifier, found '='
//	  --> main.oxl:1:5
//	   |
//	 1 | let = 5
//	   |     ^
//	   = hint: in the construct started by 'let' at 1:1
func Render(w io.Writer, source, filename string, d Diagnostic, styles Styles) error {
	sevStyle := styles.Error
	if d.Severity == Warning {
		sevStyle = styles.Warning
	}

	var b strings.Builder
	b.WriteString(styles.paint(sevStyle, fmt.Sprintf("%s[%s]", d.Severity, d.Code)))
	b.WriteString(": " + d.Message + "\n")

	start := d.Span.Start
	if start.Line == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}

	lineNo := strconv.Itoa(start.Line)
	pad := strings.Repeat(" ", len(lineNo))
	gutter := styles.paint(styles.Gutter, pad+" |")

	loc := fmt.Sprintf("%s:%d:%d", filename, start.Line, start.Column)
	b.WriteString(pad + styles.paint(styles.Gutter, "-->") + " " + styles.paint(styles.Location, loc) + "\n")
	b.WriteString(gutter + "\n")

	if line, ok := sourceLine(source, start.Line); ok {
		b.WriteString(styles.paint(styles.Gutter, lineNo+" |") + " " + line + "\n")
		b.WriteString(gutter + " " + caretPadding(line, start.Column) +
			styles.paint(sevStyle, strings.Repeat("^", caretWidth(d))) + "\n")
	}
	if d.Hint != "" {
		b.WriteString(pad + styles.paint(styles.Gutter, " =") + " " + styles.paint(styles.Hint, "hint: "+d.Hint) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll renders each diagnostic in turn, separated by blank lines.
func RenderAll(w io.Writer, source, filename string, diags []Diagnostic, styles Styles) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Render(w, source, filename, d, styles); err != nil {
			return err
		}
	}
	return nil
}

// sourceLine returns the 1-based line n of source without its line ending.
func sourceLine(source string, n int) (string, bool) {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// caretPadding returns the whitespace that puts a caret under the given
// 1-based rune column, keeping tabs so the caret lines up in a terminal.
func caretPadding(line string, column int) string {
	var b strings.Builder
	col := 1
	for _, r := range line {
		if col >= column {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
		col++
	}
	for ; col < column; col++ {
		b.WriteByte(' ')
	}
	return b.String()
}

func caretWidth(d Diagnostic) int {
	s := d.Span
	if s.Start.Line != s.End.Line || s.End.Column <= s.Start.Column {
		return 1
	}
	return s.End.Column - s.Start.Column
}
