package diag

import (
	"errors"
	"oxyl/internal/parser"
	"oxyl/internal/span"
	"strings"
	"testing"
)

func parseFailure(t *testing.T, src string) Diagnostic {
	t.Helper()
	_, err := parser.Parse(src)
	if err == nil {
		t.Fatalf("expected a parse error for %q", src)
	}
	return FromParseError(err)
}

func TestFromParseError(t *testing.T) {
	tests := []struct {
		src     string
		code    string
		line    int
		column  int
		message string
		hint    string
	}{
		{"x = 1", CodeExpected, 1, 1, "expected 'let', found 'x'", ""},
		{"let = 5", CodeUnclosed, 1, 5, "expected identifier, found '='",
			"in the construct started by 'let' at 1:1"},
		{"let x = (1 + 2", CodeUnclosed, 1, 15, "expected ')', found end of input",
			"in the construct started by '(' at 1:9"},
		{"let x = 99999999999999999999", CodeNumeric, 1, 9, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d := parseFailure(t, tt.src)
			if d.Code != tt.code {
				t.Errorf("code = %s, want %s", d.Code, tt.code)
			}
			if d.Severity != Error {
				t.Errorf("severity = %s, want error", d.Severity)
			}
			if d.Span.Start.Line != tt.line || d.Span.Start.Column != tt.column {
				t.Errorf("position = %s, want %d:%d", d.Span.Start, tt.line, tt.column)
			}
			if tt.message != "" && d.Message != tt.message {
				t.Errorf("message = %q, want %q", d.Message, tt.message)
			}
			if d.Hint != tt.hint {
				t.Errorf("hint = %q, want %q", d.Hint, tt.hint)
			}
		})
	}
}

func TestFromParseErrorNumericSpan(t *testing.T) {
	d := parseFailure(t, "let x = 99999999999999999999")
	if got := d.Span.Len(); got != 20 {
		t.Errorf("span length = %d, want 20", got)
	}
	if !strings.Contains(d.Message, "99999999999999999999") {
		t.Errorf("message %q does not name the literal", d.Message)
	}
}

func TestFromParseErrorForeignError(t *testing.T) {
	d := FromParseError(errors.New("disk on fire"))
	if d.Code != CodeUnexpected || d.Message != "disk on fire" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}

func TestRenderPlain(t *testing.T) {
	src := "let x = 1\nlet = 5\n"
	d := parseFailure(t, src)

	var b strings.Builder
	if err := Render(&b, src, "main.oxl", d, PlainStyles()); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "error[E2003]: expected identifier, found '='\n" +
		" --> main.oxl:2:5\n" +
		"  |\n" +
		"2 | let = 5\n" +
		"  |     ^\n" +
		"  = hint: in the construct started by 'let' at 2:1\n"
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestRenderCaretWidthAndTabs(t *testing.T) {
	src := "\tlet  value = 1"
	d := Warningf(CodeUnbound, span.New(
		span.Position{Offset: 6, Line: 1, Column: 7},
		span.Position{Offset: 11, Line: 1, Column: 12},
	), "unbound identifier 'value'")

	var b strings.Builder
	if err := Render(&b, src, "t.oxl", d, PlainStyles()); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(b.String(), "\n")
	if lines[0] != "warning[W3001]: unbound identifier 'value'" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[4] != "  | \t     ^^^^^" {
		t.Errorf("caret row = %q", lines[4])
	}
}

func TestRenderWithoutLocation(t *testing.T) {
	var b strings.Builder
	d := Diagnostic{Code: CodeUnexpected, Severity: Error, Message: "boom"}
	if err := Render(&b, "", "x.oxl", d, PlainStyles()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if b.String() != "error[E0001]: boom\n" {
		t.Errorf("got %q", b.String())
	}
}

func TestRenderStyledKeepsText(t *testing.T) {
	src := "let = 5"
	d := parseFailure(t, src)
	var b strings.Builder
	if err := Render(&b, src, "main.oxl", d, NewStyles(&b)); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"E2003", "main.oxl:1:5", "let = 5", "^"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("styled output lacks %q:\n%s", want, b.String())
		}
	}
}

func TestSortAndHasErrors(t *testing.T) {
	at := func(off int) span.Span {
		return span.Point(span.Position{Offset: off, Line: 1, Column: off + 1})
	}
	diags := []Diagnostic{
		Warningf(CodeUnbound, at(9), "b"),
		Warningf(CodeShadowed, at(2), "a"),
	}
	Sort(diags)
	if diags[0].Message != "a" || diags[1].Message != "b" {
		t.Errorf("not sorted: %v", diags)
	}
	if HasErrors(diags) {
		t.Error("warnings reported as errors")
	}
	if !HasErrors(append(diags, Errorf(CodeExpected, at(0), "x"))) {
		t.Error("error not detected")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(CodeExpected, span.Point(span.Position{Offset: 4, Line: 1, Column: 5}), "expected %s", "identifier")
	d.Hint = "try a name"
	want := "[E2001] error at 1:5: expected identifier (hint: try a name)"
	if d.String() != want {
		t.Errorf("got %q, want %q", d.String(), want)
	}
}
