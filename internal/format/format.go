// Package format re-renders an oxyl FST as canonical source text.
//
// Layout is normalized: single spaces around infix operators, one statement
// per line, blocks broken over lines and indented. Parentheses stay exactly
// where the source had them and every comment is kept. Comments that trail
// a statement on its last line stay there; other comments inside a statement
// are moved onto their own lines just above it. Runs of blank lines collapse
// to one.
package format

import (
	"oxyl/internal/fst"
	"sort"
	"strconv"
	"strings"
)

// Options control the rendered output.
type Options struct {
	Indent int // spaces per block level
}

// DefaultOptions returns the options used when no config is given.
func DefaultOptions() Options {
	return Options{Indent: 4}
}

// commentNewline stands in for line breaks inside multi-line block comments
// until rendering is finished, so indentation never touches them.
const commentNewline = "\x00"

// Formatter is a fst.Visitor that renders canonical source.
type Formatter struct {
	opts Options
}

// New creates a formatter. A non-positive indent falls back to the default.
func New(opts Options) *Formatter {
	if opts.Indent <= 0 {
		opts.Indent = DefaultOptions().Indent
	}
	return &Formatter{opts: opts}
}

// Format renders a whole file. Non-empty output ends with a newline.
func Format(file *fst.File, opts Options) string {
	out := Node(file, opts)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// Node renders any node, such as a single expression, without a trailing
// newline.
func Node(n fst.Node, opts Options) string {
	out := fst.Accept[string](n, New(opts))
	return strings.ReplaceAll(out, commentNewline, "\n")
}

func (f *Formatter) VisitFile(file *fst.File) string {
	pool := append([]fst.Comment(nil), file.Trivia...)
	for _, s := range file.Statements {
		pool = append(pool, ownComments(s)...)
	}
	return f.sequence(file.Statements, nil, pool)
}

func (f *Formatter) VisitStatement(s fst.Stmt) string {
	let, ok := s.(*fst.LetStmt)
	if !ok {
		return ""
	}
	head := "let "
	if let.Mutable {
		head = "let mut "
	}
	return head + fst.Accept[string](let.Ident, f) + " = " + fst.Accept[string](let.Expr, f)
}

func (f *Formatter) VisitExpression(e fst.Expr) string {
	switch e := e.(type) {
	case *fst.ParenExpr:
		return "(" + fst.Accept[string](e.Inner, f) + ")"
	case *fst.InfixExpr:
		lhs, rhs := fst.Accept[string](e.Lhs, f), fst.Accept[string](e.Rhs, f)
		if e.Op.Kind == fst.Dot || e.Op.Kind == fst.DoubleColon {
			return lhs + e.Op.Kind.String() + rhs
		}
		return lhs + " " + e.Op.Kind.String() + " " + rhs
	case *fst.PrefixExpr:
		return e.Op.Kind.String() + fst.Accept[string](e.Rhs, f)
	case *fst.PostfixExpr:
		return fst.Accept[string](e.Lhs, f) + e.Op.Kind.String()
	case *fst.ApplicationExpr:
		return fst.Accept[string](e.Function, f) + " " + fst.Accept[string](e.Arg, f)
	}
	return ""
}

func (f *Formatter) VisitValue(v fst.Value) string {
	switch v := v.(type) {
	case *fst.IntegerLit:
		return strconv.FormatInt(v.Value, 10)
	case *fst.FloatLit:
		if v.Raw != "" {
			return v.Raw
		}
		s := strconv.FormatFloat(v.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += "."
		}
		return s
	case *fst.BooleanLit:
		if v.Value {
			return "True"
		}
		return "False"
	}
	return ""
}

func (f *Formatter) VisitIdent(id *fst.Identifier) string {
	return id.Name
}

func (f *Formatter) VisitFunction(fn *fst.Function) string {
	names := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		names[i] = fst.Accept[string](a, f)
	}
	if len(names) == 0 {
		return "\\ . " + fst.Accept[string](fn.Body, f)
	}
	return "\\" + strings.Join(names, ", ") + " . " + fst.Accept[string](fn.Body, f)
}

func (f *Formatter) VisitBlock(b *fst.Block) string {
	var pool []fst.Comment
	for _, c := range b.Trivia {
		if within(c, b) {
			pool = append(pool, c)
		}
	}
	for _, s := range b.Statements {
		pool = append(pool, ownComments(s)...)
	}
	pool = append(pool, ownComments(b.Expr)...)
	body := f.sequence(b.Statements, b.Expr, pool)
	return "{\n" + f.indent(body) + "\n}"
}

// ============================================================
// Statement sequences and comment placement
// ============================================================

// item is one line-oriented unit of a sequence: a statement or the trailing
// expression of a block.
type item struct {
	node    fst.Node
	start   int // byte offset of the first token
	end     int // byte offset after the last token of the value
	endLine int
}

// sequence renders statements, an optional trailing expression and the
// comments found among them.
func (f *Formatter) sequence(stmts []fst.Stmt, tail fst.Expr, pool []fst.Comment) string {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Span.Start.Offset < pool[j].Span.Start.Offset
	})

	var items []item
	for _, s := range stmts {
		items = append(items, itemFor(s, s.(*fst.LetStmt).Expr))
	}
	if tail != nil {
		items = append(items, itemFor(tail, tail))
	}

	var lines []string
	lastLine := 0
	gap := func(line int) {
		if lastLine > 0 && line > lastLine+1 && len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
	}
	emitStandalone := func(c fst.Comment) {
		gap(c.Span.Start.Line)
		lines = append(lines, commentText(c))
		lastLine = c.Span.End.Line
	}

	next := 0
	for _, it := range items {
		for next < len(pool) && pool[next].Span.Start.Offset < it.start {
			emitStandalone(pool[next])
			next++
		}
		var hoisted, trailing []string
		for next < len(pool) && pool[next].Span.Start.Line <= it.endLine {
			c := pool[next]
			if c.Span.Start.Offset >= it.end && c.Span.Start.Line == it.endLine {
				trailing = append(trailing, commentText(c))
			} else {
				hoisted = append(hoisted, commentText(c))
			}
			next++
		}
		gap(it.node.Location().Start.Line)
		lines = append(lines, hoisted...)
		text := fst.Accept[string](it.node, f)
		if len(trailing) > 0 {
			text += " " + strings.Join(trailing, " ")
		}
		lines = append(lines, text)
		lastLine = it.endLine
	}
	for ; next < len(pool); next++ {
		emitStandalone(pool[next])
	}
	return strings.Join(lines, "\n")
}

func itemFor(n fst.Node, value fst.Expr) item {
	end := value.Location().End
	return item{
		node:    n,
		start:   n.Location().Start.Offset,
		end:     end.Offset,
		endLine: end.Line,
	}
}

// ownComments returns the comments attached under n, leaving out those that
// sit inside nested blocks; a block places its own inner comments.
func ownComments(n fst.Node) []fst.Comment {
	var out []fst.Comment
	fst.Inspect(n, func(node fst.Node) bool {
		if b, ok := node.(*fst.Block); ok {
			for _, c := range b.Trivia {
				if !within(c, b) {
					out = append(out, c)
				}
			}
			return false
		}
		if c, ok := node.(fst.Commented); ok {
			out = append(out, c.Comments()...)
		}
		switch node := node.(type) {
		case *fst.InfixExpr:
			out = append(out, node.Op.Trivia...)
		case *fst.PrefixExpr:
			out = append(out, node.Op.Trivia...)
		case *fst.PostfixExpr:
			out = append(out, node.Op.Trivia...)
		}
		return true
	})
	return out
}

func within(c fst.Comment, n fst.Node) bool {
	s := n.Location()
	return c.Span.Start.Offset >= s.Start.Offset && c.Span.End.Offset <= s.End.Offset
}

func commentText(c fst.Comment) string {
	return strings.ReplaceAll(c.Text(), "\n", commentNewline)
}

func (f *Formatter) indent(text string) string {
	pad := strings.Repeat(" ", f.opts.Indent)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
