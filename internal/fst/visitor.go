package fst

import "fmt"

// Visitor is a depth-first traversal over the FST producing a result of type
// T. Accept routes each node to the most specific method: VisitValue only
// sees literals, while identifiers, function literals and blocks go to their
// own methods and VisitExpression gets the composite expressions. Each method
// is responsible for visiting its children (usually via Accept) and combining
// the results.
type Visitor[T any] interface {
	VisitFile(f *File) T
	VisitStatement(s Stmt) T
	VisitExpression(e Expr) T
	VisitValue(v Value) T
	VisitIdent(id *Identifier) T
	VisitFunction(fn *Function) T
	VisitBlock(b *Block) T
}

// Accept dispatches n to the matching method of v.
func Accept[T any](n Node, v Visitor[T]) T {
	switch n := n.(type) {
	case *File:
		return v.VisitFile(n)
	case *LetStmt:
		return v.VisitStatement(n)
	case *Identifier:
		return v.VisitIdent(n)
	case *Function:
		return v.VisitFunction(n)
	case *Block:
		return v.VisitBlock(n)
	case *IntegerLit, *FloatLit, *BooleanLit:
		return v.VisitValue(n.(Value))
	case *ParenExpr, *InfixExpr, *PrefixExpr, *PostfixExpr, *ApplicationExpr:
		return v.VisitExpression(n.(Expr))
	default:
		panic(fmt.Sprintf("fst: unhandled node type %T", n))
	}
}
