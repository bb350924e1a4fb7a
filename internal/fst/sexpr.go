package fst

import (
	"strconv"
	"strings"
)

// Sexpr renders a node as a compact s-expression, ignoring spans and
// comments. Two trees print the same exactly when they have the same shape.
//
//	let f = \x . x + 1   =>   (let f (\ (x) (+ x 1)))
func Sexpr(n Node) string {
	return Accept[string](n, sexprVisitor{})
}

type sexprVisitor struct{}

func (sv sexprVisitor) VisitFile(f *File) string {
	parts := make([]string, len(f.Statements))
	for i, s := range f.Statements {
		parts[i] = Accept[string](s, sv)
	}
	return strings.Join(parts, "\n")
}

func (sv sexprVisitor) VisitStatement(s Stmt) string {
	let := s.(*LetStmt)
	head := "(let "
	if let.Mutable {
		head = "(let mut "
	}
	return head + let.Ident.Name + " " + Accept[string](let.Expr, sv) + ")"
}

func (sv sexprVisitor) VisitExpression(e Expr) string {
	switch e := e.(type) {
	case *ParenExpr:
		return "(paren " + Accept[string](e.Inner, sv) + ")"
	case *InfixExpr:
		return "(" + e.Op.Kind.String() + " " + Accept[string](e.Lhs, sv) + " " + Accept[string](e.Rhs, sv) + ")"
	case *PrefixExpr:
		return "(" + e.Op.Kind.String() + " " + Accept[string](e.Rhs, sv) + ")"
	case *PostfixExpr:
		return "(" + e.Op.Kind.String() + " " + Accept[string](e.Lhs, sv) + ")"
	case *ApplicationExpr:
		return "(app " + Accept[string](e.Function, sv) + " " + Accept[string](e.Arg, sv) + ")"
	}
	return "?"
}

func (sv sexprVisitor) VisitValue(v Value) string {
	switch v := v.(type) {
	case *IntegerLit:
		return strconv.FormatInt(v.Value, 10)
	case *FloatLit:
		return strconv.FormatFloat(v.Value, 'g', -1, 64) + "f"
	case *BooleanLit:
		if v.Value {
			return "True"
		}
		return "False"
	}
	return "?"
}

func (sv sexprVisitor) VisitIdent(id *Identifier) string {
	return id.Name
}

func (sv sexprVisitor) VisitFunction(fn *Function) string {
	names := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		names[i] = a.Name
	}
	return "(\\ (" + strings.Join(names, " ") + ") " + Accept[string](fn.Body, sv) + ")"
}

func (sv sexprVisitor) VisitBlock(b *Block) string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, s := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(Accept[string](s, sv))
	}
	sb.WriteString(" ")
	sb.WriteString(Accept[string](b.Expr, sv))
	sb.WriteString(")")
	return sb.String()
}
