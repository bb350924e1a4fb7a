package resolve

import (
	"errors"
	"oxyl/internal/diag"
	"oxyl/internal/parser"
	"strings"
	"testing"
)

func checkOK(t *testing.T, source string, opts Options) []diag.Diagnostic {
	t.Helper()
	file, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Check(file, opts)
}

// summary renders diagnostics as "CODE@line:col" for compact comparison.
func summary(diags []diag.Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Code + "@" + d.Span.Start.String()
	}
	return strings.Join(parts, " ")
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"clean", "let x = 1\nlet y = x + 2", ""},
		{"unbound", "let y = x + 2", "W3001@1:9"},
		{"use before let", "let a = b\nlet b = 1", "W3001@1:9"},
		{"self reference in value", "let x = x + 1", "W3001@1:9"},
		{"recursive function", "let f = \\n . f n", ""},
		{"parameters", "let add = \\a, b . a + b + c", "W3001@1:27"},
		{"parameters do not leak", "let f = \\a . a\nlet g = a", "W3001@2:9"},
		{"member access", "let p = 1\nlet q = p.field", ""},
		{"member base unbound", "let q = p.field", "W3001@1:9"},
		{"same scope shadow", "let x = 1\nlet x = 2", "W3002@2:5"},
		{"duplicate parameter", "let f = \\a, a . a", "W3002@1:13"},
		{"block scope", "let x = 1\nlet v = {\n let x = 2\n x\n}", ""},
		{"block bindings do not leak", "let v = {\n let t = 2\n t\n}\nlet w = t", "W3001@5:9"},
		{"sequential block", "let v = {\n let a = b\n let b = 1\n a\n}", "W3001@2:10"},
		{"application", "let r = f x y", "W3001@1:9 W3001@1:11 W3001@1:13"},
		{"pipe", "let inc = \\n . n + 1\nlet r = 4 |> inc |> dec", "W3001@2:21"},
		{"prefix and parens", "let r = -(z)", "W3001@1:11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summary(checkOK(t, tt.src, Options{}))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckGlobals(t *testing.T) {
	diags := checkOK(t, "let r = show 1\nlet s = print r", Options{Globals: []string{"show"}})
	if got := summary(diags); got != "W3001@2:9" {
		t.Errorf("got %q", got)
	}
}

func TestShadowingGlobalHasNoHint(t *testing.T) {
	diags := checkOK(t, "let show = 1", Options{Globals: []string{"show"}})
	if len(diags) != 1 || diags[0].Code != diag.CodeShadowed {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if diags[0].Hint != "" {
		t.Errorf("unexpected hint %q", diags[0].Hint)
	}
	if !strings.Contains(diags[0].Message, "global") {
		t.Errorf("message %q does not mention the global", diags[0].Message)
	}
}

func TestShadowHintPointsAtPrevious(t *testing.T) {
	diags := checkOK(t, "let x = 1\nlet mut x = 2", Options{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Severity != diag.Warning {
		t.Errorf("severity = %s", d.Severity)
	}
	if d.Hint != "previous binding at 1:5" {
		t.Errorf("hint = %q", d.Hint)
	}
}

func TestDiagnosticsAreSorted(t *testing.T) {
	diags := checkOK(t, "let f = \\a . {\n let a = q\n a\n}\nlet g = z", Options{})
	if got := summary(diags); got != "W3001@2:10 W3001@5:9" {
		t.Errorf("got %q", got)
	}
}

func TestScope(t *testing.T) {
	root := NewScope(nil)
	if err := root.Define(Binding{Name: "a"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	child := NewScope(root)
	if _, ok := child.Lookup("a"); !ok {
		t.Error("lookup through parent failed")
	}
	if _, ok := child.LookupLocal("a"); ok {
		t.Error("LookupLocal saw the parent's binding")
	}
	if err := child.Define(Binding{Name: "a", Kind: ParamBinding}); err != nil {
		t.Errorf("defining in a child scope should not conflict: %v", err)
	}
	err := root.Define(Binding{Name: "a", Mutable: true})
	var redef *RedefinitionError
	if !errors.As(err, &redef) {
		t.Fatalf("expected RedefinitionError, got %v", err)
	}
	if b, _ := root.LookupLocal("a"); !b.Mutable {
		t.Error("redefinition did not replace the binding")
	}
	if child.Parent() != root || root.Parent() != nil {
		t.Error("parent chain broken")
	}
}
