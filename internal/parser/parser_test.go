package parser

import (
	"errors"
	"math"
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"strconv"
	"testing"
)

// helper: parse a file and fail the test on error
func parseOK(t *testing.T, source string) *fst.File {
	t.Helper()
	file, err := Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return file
}

// helper: parse an expression and return its s-expression form
func exprSexpr(t *testing.T, source string) string {
	t.Helper()
	expr, err := ParseExpression(source)
	if err != nil {
		t.Fatalf("parse error for %q: %v", source, err)
	}
	return fst.Sexpr(expr)
}

// helper: parse expecting failure and return the structured error
func parseErr(t *testing.T, source string) *combinator.Error {
	t.Helper()
	_, err := Parse(source)
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	var perr *combinator.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *combinator.Error, got %T", err)
	}
	return perr
}

func TestParseLet(t *testing.T) {
	file := parseOK(t, "let x = 42")
	if len(file.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Statements))
	}
	let, ok := file.Statements[0].(*fst.LetStmt)
	if !ok {
		t.Fatalf("expected LetStmt, got %T", file.Statements[0])
	}
	if let.Ident.Name != "x" {
		t.Errorf("expected name 'x', got %q", let.Ident.Name)
	}
	if let.Mutable {
		t.Error("let without mut should be immutable")
	}
	lit, ok := let.Expr.(*fst.IntegerLit)
	if !ok || lit.Value != 42 {
		t.Errorf("expected IntegerLit 42, got %#v", let.Expr)
	}
}

func TestParseLetMut(t *testing.T) {
	file := parseOK(t, "let mut counter = 0")
	let := file.Statements[0].(*fst.LetStmt)
	if !let.Mutable {
		t.Error("expected mutable binding")
	}
	if let.Ident.Name != "counter" {
		t.Errorf("expected name 'counter', got %q", let.Ident.Name)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	src := "let x = 1\n\nlet y = x\r\nlet z = y"
	file := parseOK(t, src)
	if len(file.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(file.Statements))
	}
	got := fst.Sexpr(file)
	want := "(let x 1)\n(let y x)\n(let z y)"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a |> b |> c", "(|> a (|> b c))"},
		{"a.b |> c", "(|> (. a b) c)"},
		{"a.b.c", "(. a (. b c))"},
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"a / b * c", "(* (/ a b) c)"},
		{"a - b + c", "(+ (- a b) c)"},
		{"a * b |> f", "(* a (|> b f))"},
		{"-a.b", "(- (. a b))"},
		{"-x |> f", "(|> (- x) f)"},
		{"- 1 + 2", "(+ (- 1) 2)"},
		{"f x + g y", "(+ (app f x) (app g y))"},
		{"(1 + 2) * 3", "(* (paren (+ 1 2)) 3)"},
		{"a +\n  b", "(+ a b)"},
	}
	for _, tt := range tests {
		if got := exprSexpr(t, tt.src); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestApplicationIsLeftAssociative(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f g", "(app f g)"},
		{"f g h", "(app (app f g) h)"},
		{"f g h i", "(app (app (app f g) h) i)"},
		{"f g h i j", "(app (app (app (app f g) h) i) j)"},
		{"f (g h)", "(app f (paren (app g h)))"},
		{"f 1 2.5 True", "(app (app (app f 1) 2.5f) True)"},
		{"f { 1 } x", "(app (app f (block 1)) x)"},
	}
	for _, tt := range tests {
		if got := exprSexpr(t, tt.src); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestApplicationSpan(t *testing.T) {
	expr, err := ParseExpression("f g h")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	app := expr.(*fst.ApplicationExpr)
	if s := app.Location(); s.Start.Offset != 0 || s.End.Offset != 5 {
		t.Errorf("outer span = %v", s)
	}
	inner := app.Function.(*fst.ApplicationExpr)
	if s := inner.Location(); s.Start.Offset != 0 || s.End.Offset != 3 {
		t.Errorf("inner span = %v", s)
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"3.5", "3.5f"},
		{"3.", "3f"},
		{"0", "0"},
		{"True", "True"},
		{"False", "False"},
		{"Truex", "Truex"},
		{"_tmp1", "_tmp1"},
		{"naïve", "naïve"},
	}
	for _, tt := range tests {
		if got := exprSexpr(t, tt.src); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
	expr, _ := ParseExpression("3.")
	if f, ok := expr.(*fst.FloatLit); !ok || f.Raw != "3." {
		t.Errorf("float should keep its spelling, got %#v", expr)
	}
}

func TestFunctionArguments(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`\ . 123`, `(\ () 123)`},
		{`\x . x`, `(\ (x) x)`},
		{`\x, y . 123`, `(\ (x y) 123)`},
		{`\x, y, . 123`, `(\ (x y) 123)`},
		{`\x,y. x + y`, `(\ (x y) (+ x y))`},
		{`\x . \y . x`, `(\ (x) (\ (y) x))`},
	}
	for _, tt := range tests {
		if got := exprSexpr(t, tt.src); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}

	expr, _ := ParseExpression(`\x . x`)
	fn := expr.(*fst.Function)
	if s := fn.Location(); s.Start.Offset != 0 || s.End.Offset != 6 {
		t.Errorf("function span = %v", s)
	}
}

func TestParseBlock(t *testing.T) {
	src := "{ let x = 3\n123\n}"
	expr, err := ParseExpression(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b, ok := expr.(*fst.Block)
	if !ok {
		t.Fatalf("expected Block, got %T", expr)
	}
	if len(b.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(b.Statements))
	}
	let := b.Statements[0].(*fst.LetStmt)
	if let.Ident.Name != "x" {
		t.Errorf("expected binding of x, got %q", let.Ident.Name)
	}
	if lit, ok := let.Expr.(*fst.IntegerLit); !ok || lit.Value != 3 {
		t.Errorf("expected 3, got %#v", let.Expr)
	}
	if lit, ok := b.Expr.(*fst.IntegerLit); !ok || lit.Value != 123 {
		t.Errorf("expected trailing 123, got %#v", b.Expr)
	}
	s := b.Location()
	if s.Start.Offset != 0 || s.End.Offset != len(src) {
		t.Errorf("block span = %d..%d, want 0..%d", s.Start.Offset, s.End.Offset, len(src))
	}
	if s.End.Line != 3 || s.End.Column != 2 {
		t.Errorf("block end = %s, want 3:2", s.End)
	}
}

func TestNestedBlocks(t *testing.T) {
	src := "let f = \\x . {\n  let y = { let z = x\n z }\n  y * 2\n}\n"
	file := parseOK(t, src)
	want := `(let f (\ (x) (block (let y (block (let z x) z)) (* y 2))))`
	if got := fst.Sexpr(file); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestStatementSpans(t *testing.T) {
	src := "let x = 1\nlet y = 2"
	file := parseOK(t, src)
	first := file.Statements[0].Location()
	if first.Start.Offset != 0 || first.End.Offset != 10 {
		t.Errorf("first statement span = %d..%d, want 0..10", first.Start.Offset, first.End.Offset)
	}
	second := file.Statements[1].Location()
	if second.Start.Offset != 10 || second.End.Offset != len(src) {
		t.Errorf("second statement span = %d..%d", second.Start.Offset, second.End.Offset)
	}
	if fs := file.Location(); fs.Start.Offset != 0 || fs.End.Offset != len(src) {
		t.Errorf("file span = %v", fs)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n"} {
		file := parseOK(t, src)
		if len(file.Statements) != 0 {
			t.Errorf("%q: expected no statements, got %d", src, len(file.Statements))
		}
	}
	file := parseOK(t, "")
	if !file.Location().IsEmpty() {
		t.Errorf("empty file span should be zero-width, got %v", file.Location())
	}
}

func TestCommitErrorLocality(t *testing.T) {
	err := parseErr(t, "let x 5")
	if err.Kind != combinator.UnclosedDelimiter || !err.Fatal {
		t.Errorf("kind=%s fatal=%v", err.Kind, err.Fatal)
	}
	pos := err.Position()
	if pos.Line != 1 || pos.Column != 7 {
		t.Errorf("error at %s, want 1:7", pos)
	}
	want := "1:7: expected '=', found '5' (after 'let' at 1:1)"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x", "1:1: expected 'let', found 'x'"},
		{"let = 5", "1:5: expected identifier, found '=' (after 'let' at 1:1)"},
		{"let let = 5", "1:5: expected identifier, found 'let' (after 'let' at 1:1)"},
		{"let x =", "1:8: expected expression, found end of input (after 'let' at 1:1)"},
		{"let x = 1 )", "1:11: expected newline or end of input, found ')' (after 'let' at 1:1)"},
		{"let x = (1", "1:11: expected ')', found end of input (after '(' at 1:9)"},
		{"let x = { 1", "1:12: expected '}', found end of input (after '{' at 1:9)"},
		{"let x = 1 /* open", "1:18: expected '*/', found end of input (after '/*' at 1:11)"},
	}
	for _, tt := range tests {
		err := parseErr(t, tt.src)
		if err.Error() != tt.want {
			t.Errorf("%q:\n got  %s\n want %s", tt.src, err.Error(), tt.want)
		}
	}
}

func TestIntegerOverflowIsFatal(t *testing.T) {
	err := parseErr(t, "let x = 99999999999999999999")
	if err.Kind != combinator.NumericConversion {
		t.Errorf("kind = %s, want numeric conversion", err.Kind)
	}
	if !err.Fatal {
		t.Error("numeric conversion errors must be fatal")
	}
	if !errors.Is(err, strconv.ErrRange) {
		t.Error("expected strconv.ErrRange in the error chain")
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 7, 42, 1000000, math.MaxInt32, math.MaxInt64} {
		src := "let n = " + strconv.FormatInt(v, 10)
		file := parseOK(t, src)
		lit, ok := file.Statements[0].(*fst.LetStmt).Expr.(*fst.IntegerLit)
		if !ok {
			t.Fatalf("%d: expected IntegerLit", v)
		}
		if lit.Value != v {
			t.Errorf("round trip %d -> %d", v, lit.Value)
		}
	}
}

func TestWhitespaceIdempotence(t *testing.T) {
	pairs := [][2]string{
		{"f x+g(y)", "f  x\t+   g ( y )"},
		{"a|>b.c", "a |>\tb . c"},
		{`\x,y.x*y`, "\\ x ,  y  .  x  *  y"},
		{"{let a=1\na}", "{   let   a   =   1  \n\t a   }"},
		{"-a-b", "- a - b"},
	}
	for _, p := range pairs {
		a, b := exprSexpr(t, p[0]), exprSexpr(t, p[1])
		if a != b {
			t.Errorf("%q and %q differ:\n%s\n%s", p[0], p[1], a, b)
		}
	}
}

func TestCommentsAreAttached(t *testing.T) {
	src := "// header\nlet x = 1 // trailing\nlet y = /* inline */ 2\n// footer\n"
	file := parseOK(t, src)
	if len(file.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Statements))
	}
	first := file.Statements[0].(*fst.LetStmt)
	if len(first.Comments()) == 0 || first.Comments()[0].Contents != " header" {
		t.Errorf("leading comment should attach to the first statement, got %v", first.Comments())
	}
	all := fst.CollectComments(file)
	want := []string{"// header", "// trailing", "/* inline */", "// footer"}
	if len(all) != len(want) {
		t.Fatalf("expected %d comments, got %d", len(want), len(all))
	}
	for i, c := range all {
		if c.Text() != want[i] {
			t.Errorf("comment %d = %q, want %q", i, c.Text(), want[i])
		}
	}
}

func TestCommentOnlyFile(t *testing.T) {
	file := parseOK(t, "// nothing here\n/* at all */")
	if len(file.Statements) != 0 {
		t.Fatalf("expected no statements")
	}
	if len(file.Comments()) != 2 {
		t.Errorf("expected file-level comments, got %v", file.Comments())
	}
}

func TestSlashVersusComment(t *testing.T) {
	if got := exprSexpr(t, "a / b // half"); got != "(/ a b)" {
		t.Errorf("got %s", got)
	}
	if got := exprSexpr(t, "a /* x */ / b"); got != "(/ a b)" {
		t.Errorf("got %s", got)
	}
}

func TestBlockValueEndsStatement(t *testing.T) {
	file := parseOK(t, "let x = { 1 }\nlet y = (x) // done\nlet z = y")
	want := "(let x (block 1))\n(let y (paren x))\n(let z y)"
	if got := fst.Sexpr(file); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
