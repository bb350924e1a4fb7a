// Package resolve checks name usage in an oxyl FST.
//
// Names resolve lexically. A file and every block open a scope whose
// statements bind one after another, and a function literal opens a scope
// holding its parameters. A let is visible in its own initializer only when
// that initializer is a function literal, so functions can recurse. The
// right-hand side of "." names a member and is never resolved.
//
// Findings are warnings: oxyl has no type system and lowering does not need
// names to resolve.
package resolve

import (
	"errors"
	"oxyl/internal/diag"
	"oxyl/internal/fst"
)

// Options control the checker.
type Options struct {
	Globals []string // names treated as bound everywhere, e.g. C library functions
}

// Checker is a fst.Visitor that collects name-resolution diagnostics.
type Checker struct {
	scope *Scope
}

// New creates a checker whose outermost scope holds opts.Globals.
func New(opts Options) *Checker {
	root := NewScope(nil)
	for _, g := range opts.Globals {
		_ = root.Define(Binding{Name: g, Kind: GlobalBinding})
	}
	return &Checker{scope: root}
}

// Check resolves every name in file and returns the findings sorted by
// position.
func Check(file *fst.File, opts Options) []diag.Diagnostic {
	diags := fst.Accept[[]diag.Diagnostic](file, New(opts))
	diag.Sort(diags)
	return diags
}

func (c *Checker) push() {
	c.scope = NewScope(c.scope)
}

func (c *Checker) pop() {
	c.scope = c.scope.Parent()
}

func (c *Checker) define(id *fst.Identifier, kind BindingKind, mutable bool) []diag.Diagnostic {
	err := c.scope.Define(Binding{Name: id.Name, Kind: kind, Mutable: mutable, Span: id.Span})
	var redef *RedefinitionError
	if !errors.As(err, &redef) {
		return nil
	}
	d := diag.Warningf(diag.CodeShadowed, id.Span, "'%s' shadows a %s in the same scope", id.Name, redef.Previous.Kind)
	if redef.Previous.Kind != GlobalBinding {
		d.Hint = "previous binding at " + redef.Previous.Span.Start.String()
	}
	return []diag.Diagnostic{d}
}

func (c *Checker) visitAll(nodes ...fst.Node) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, n := range nodes {
		out = append(out, fst.Accept[[]diag.Diagnostic](n, c)...)
	}
	return out
}

func (c *Checker) VisitFile(f *fst.File) []diag.Diagnostic {
	c.push()
	defer c.pop()
	var out []diag.Diagnostic
	for _, s := range f.Statements {
		out = append(out, fst.Accept[[]diag.Diagnostic](s, c)...)
	}
	return out
}

func (c *Checker) VisitStatement(s fst.Stmt) []diag.Diagnostic {
	let, ok := s.(*fst.LetStmt)
	if !ok {
		return nil
	}
	if _, isFunc := let.Expr.(*fst.Function); isFunc {
		out := c.define(let.Ident, LetBinding, let.Mutable)
		return append(out, c.visitAll(let.Expr)...)
	}
	out := c.visitAll(let.Expr)
	return append(out, c.define(let.Ident, LetBinding, let.Mutable)...)
}

func (c *Checker) VisitExpression(e fst.Expr) []diag.Diagnostic {
	if in, ok := e.(*fst.InfixExpr); ok && in.Op.Kind == fst.Dot {
		return c.visitAll(in.Lhs)
	}
	return c.visitAll(fst.Children(e)...)
}

func (c *Checker) VisitValue(v fst.Value) []diag.Diagnostic {
	return nil
}

func (c *Checker) VisitIdent(id *fst.Identifier) []diag.Diagnostic {
	if _, ok := c.scope.Lookup(id.Name); ok {
		return nil
	}
	return []diag.Diagnostic{
		diag.Warningf(diag.CodeUnbound, id.Span, "unbound identifier '%s'", id.Name),
	}
}

func (c *Checker) VisitFunction(fn *fst.Function) []diag.Diagnostic {
	c.push()
	defer c.pop()
	var out []diag.Diagnostic
	for _, a := range fn.Args {
		out = append(out, c.define(a, ParamBinding, false)...)
	}
	return append(out, c.visitAll(fn.Body)...)
}

func (c *Checker) VisitBlock(b *fst.Block) []diag.Diagnostic {
	c.push()
	defer c.pop()
	var out []diag.Diagnostic
	for _, s := range b.Statements {
		out = append(out, fst.Accept[[]diag.Diagnostic](s, c)...)
	}
	return append(out, c.visitAll(b.Expr)...)
}
