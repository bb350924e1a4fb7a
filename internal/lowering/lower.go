// Package lowering renders an oxyl FST as C-like source text.
//
// A let bound to a function literal becomes a forward declaration followed
// by a definition; every other let becomes a declaration with initializer.
// Blocks become braces around their statements and a return of the trailing
// expression. Every parameter is of the configured integer type, and a
// binding's declared type is inferred from literals: double for floats, bool
// for booleans, the integer type otherwise.
package lowering

import (
	"oxyl/internal/fst"
	"strconv"
	"strings"
)

// Options control the rendered output.
type Options struct {
	IntType string // C type used for integers and parameters
	Indent  int    // spaces per block level
}

// DefaultOptions returns the options used when no config is given.
func DefaultOptions() Options {
	return Options{IntType: "int", Indent: 4}
}

// CLowerer is a fst.Visitor that produces C-like text.
type CLowerer struct {
	opts Options
}

// New creates a lowerer. Zero fields in opts fall back to DefaultOptions.
func New(opts Options) *CLowerer {
	def := DefaultOptions()
	if opts.IntType == "" {
		opts.IntType = def.IntType
	}
	if opts.Indent <= 0 {
		opts.Indent = def.Indent
	}
	return &CLowerer{opts: opts}
}

// Lower renders a whole file, ending with a newline when it has statements.
func Lower(file *fst.File, opts Options) string {
	out := fst.Accept[string](file, New(opts))
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (l *CLowerer) VisitFile(f *fst.File) string {
	parts := make([]string, len(f.Statements))
	for i, s := range f.Statements {
		parts[i] = fst.Accept[string](s, l)
	}
	return strings.Join(parts, "\n")
}

func (l *CLowerer) VisitStatement(s fst.Stmt) string {
	let, ok := s.(*fst.LetStmt)
	if !ok {
		return ""
	}
	name := fst.Accept[string](let.Ident, l)
	if fn, ok := let.Expr.(*fst.Function); ok {
		ret := l.typeOf(fn.Body)
		params := l.params(fn)
		return "extern " + ret + " " + name + params + ";\n" +
			ret + " " + name + fst.Accept[string](fn, l)
	}
	decl := l.typeOf(let.Expr) + " " + name + " = " + fst.Accept[string](let.Expr, l) + ";"
	if let.Mutable {
		return decl
	}
	return "const " + decl
}

func (l *CLowerer) VisitExpression(e fst.Expr) string {
	switch e := e.(type) {
	case *fst.ParenExpr:
		return fst.Accept[string](e.Inner, l)
	case *fst.InfixExpr:
		lhs := fst.Accept[string](e.Lhs, l)
		switch e.Op.Kind {
		case fst.Triangle:
			return l.call(e.Rhs, lhs)
		case fst.Dot, fst.DoubleColon:
			return lhs + e.Op.Kind.String() + fst.Accept[string](e.Rhs, l)
		default:
			return "(" + lhs + " " + e.Op.Kind.String() + " " + fst.Accept[string](e.Rhs, l) + ")"
		}
	case *fst.PrefixExpr:
		return "(" + e.Op.Kind.String() + fst.Accept[string](e.Rhs, l) + ")"
	case *fst.PostfixExpr:
		return "(" + fst.Accept[string](e.Lhs, l) + e.Op.Kind.String() + ")"
	case *fst.ApplicationExpr:
		return l.call(e)
	}
	return ""
}

// call renders an application spine as one call. Extra arguments are
// appended after the spine's own, which is how x |> f y becomes f(y, x).
func (l *CLowerer) call(e fst.Expr, extra ...string) string {
	var args []string
	head := e
	for {
		app, ok := head.(*fst.ApplicationExpr)
		if !ok {
			break
		}
		args = append([]string{fst.Accept[string](app.Arg, l)}, args...)
		head = app.Function
	}
	args = append(args, extra...)
	return fst.Accept[string](head, l) + "(" + strings.Join(args, ", ") + ")"
}

func (l *CLowerer) VisitValue(v fst.Value) string {
	switch v := v.(type) {
	case *fst.IntegerLit:
		return strconv.FormatInt(v.Value, 10)
	case *fst.FloatLit:
		s := strconv.FormatFloat(v.Value, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case *fst.BooleanLit:
		return strconv.FormatBool(v.Value)
	}
	return ""
}

func (l *CLowerer) VisitIdent(id *fst.Identifier) string {
	return id.Name
}

// VisitFunction renders the parameter list and body of a function. The
// caller supplies the return type and name.
func (l *CLowerer) VisitFunction(fn *fst.Function) string {
	var body []string
	ret := fn.Body
	if b, ok := fn.Body.(*fst.Block); ok {
		body = l.statements(b.Statements)
		ret = b.Expr
	}
	body = append(body, "return "+fst.Accept[string](ret, l)+";")
	return l.params(fn) + " {\n" + l.indent(strings.Join(body, "\n")) + "\n}"
}

func (l *CLowerer) VisitBlock(b *fst.Block) string {
	body := l.statements(b.Statements)
	body = append(body, "return "+fst.Accept[string](b.Expr, l)+";")
	return "{\n" + l.indent(strings.Join(body, "\n")) + "\n}"
}

// ---- helpers ----

func (l *CLowerer) statements(stmts []fst.Stmt) []string {
	out := make([]string, 0, len(stmts)+1)
	for _, s := range stmts {
		out = append(out, fst.Accept[string](s, l))
	}
	return out
}

func (l *CLowerer) params(fn *fst.Function) string {
	if len(fn.Args) == 0 {
		return "(void)"
	}
	ps := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		ps[i] = l.opts.IntType + " " + fst.Accept[string](a, l)
	}
	return "(" + strings.Join(ps, ", ") + ")"
}

func (l *CLowerer) indent(text string) string {
	pad := strings.Repeat(" ", l.opts.Indent)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// typeOf infers the C type of an expression from its literals.
func (l *CLowerer) typeOf(e fst.Expr) string {
	switch e := e.(type) {
	case *fst.FloatLit:
		return "double"
	case *fst.BooleanLit:
		return "bool"
	case *fst.ParenExpr:
		return l.typeOf(e.Inner)
	case *fst.Block:
		return l.typeOf(e.Expr)
	case *fst.PrefixExpr:
		return l.typeOf(e.Rhs)
	case *fst.InfixExpr:
		switch e.Op.Kind {
		case fst.Plus, fst.Dash, fst.Star, fst.FSlash:
			if l.typeOf(e.Lhs) == "double" || l.typeOf(e.Rhs) == "double" {
				return "double"
			}
		}
	}
	return l.opts.IntType
}
