// Package fst defines the full syntax tree for oxyl: an AST that keeps every
// comment and the exact source span of every node, so one parse can serve the
// lowerer, the formatter and the checker.
package fst

import (
	"oxyl/internal/span"
	"oxyl/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all FST nodes.
type Node interface {
	nodeNode()
	Location() span.Span
}

// Commented is implemented by nodes that carry attached comments.
type Commented interface {
	Node
	Comments() []Comment
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Value is the interface for the leaf expressions: literals, identifiers and
// function literals.
type Value interface {
	Expr
	valueNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the span and attached comments common to all nodes.
type NodeBase struct {
	Span   span.Span
	Trivia []Comment
}

func (n NodeBase) nodeNode()           {}
func (n NodeBase) Location() span.Span { return n.Span }
func (n NodeBase) Comments() []Comment { return n.Trivia }

// AddComments attaches cs to the node. Only the parser calls it, while the
// node is being built.
func (n *NodeBase) AddComments(cs ...Comment) {
	n.Trivia = append(n.Trivia, cs...)
}

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ValueBase is embedded by all value nodes.
type ValueBase struct{ ExprBase }

func (ValueBase) valueNode() {}

// ============================================================
// Comments
// ============================================================

// CommentStyle distinguishes "// ..." from "/* ... */".
type CommentStyle int

const (
	LineComment CommentStyle = iota
	BlockComment
)

func (s CommentStyle) String() string {
	if s == BlockComment {
		return "block"
	}
	return "line"
}

// Comment is a source comment. Contents excludes the delimiters.
type Comment struct {
	Span     span.Span
	Contents string
	Style    CommentStyle
}

func (c Comment) nodeNode()           {}
func (c Comment) Location() span.Span { return c.Span }

// Text renders the comment with its delimiters.
func (c Comment) Text() string {
	if c.Style == BlockComment {
		return "/*" + c.Contents + "*/"
	}
	return "//" + c.Contents
}

// ============================================================
// File (FST root)
// ============================================================

// File is the root of a parse. Trivia holds comments after the last statement.
type File struct {
	NodeBase
	Statements []Stmt
}

// ============================================================
// Statements
// ============================================================

// LetStmt binds Ident to the value of Expr: let [mut] ident = expr.
type LetStmt struct {
	StmtBase
	Mutable bool
	Ident   *Identifier
	Expr    Expr
}

// ============================================================
// Operators
// ============================================================

// OperatorKind identifies an operator.
type OperatorKind int

const (
	Plus OperatorKind = iota
	Dash
	Star
	FSlash
	Triangle
	Dot
	DoubleColon
	Application
)

var operatorSpellings = map[OperatorKind]string{
	Plus:        "+",
	Dash:        "-",
	Star:        "*",
	FSlash:      "/",
	Triangle:    "|>",
	Dot:         ".",
	DoubleColon: "::",
	Application: " ",
}

// String returns the operator's source spelling. Application is spelled as a
// single space.
func (k OperatorKind) String() string {
	if s, ok := operatorSpellings[k]; ok {
		return s
	}
	return "?"
}

// OperatorKindOf maps an operator token kind to its OperatorKind.
func OperatorKindOf(kind token.Kind) (OperatorKind, bool) {
	if !kind.IsOperator() {
		return 0, false
	}
	switch kind {
	case token.PLUS:
		return Plus, true
	case token.MINUS:
		return Dash, true
	case token.STAR:
		return Star, true
	case token.SLASH:
		return FSlash, true
	case token.TRIANGLE:
		return Triangle, true
	case token.DOT:
		return Dot, true
	case token.DOUBLECOLON:
		return DoubleColon, true
	default:
		return 0, false
	}
}

// Operator is an operator occurrence. Trivia holds comments found around it.
type Operator struct {
	NodeBase
	Kind OperatorKind
}

// ============================================================
// Expressions
// ============================================================

// Block is { statements... expr }; its value is the value of Expr.
type Block struct {
	ExprBase
	Statements []Stmt
	Expr       Expr
}

// ParenExpr is ( inner ). The delimiter spans are kept so the source can be
// reproduced.
type ParenExpr struct {
	ExprBase
	LParen span.Span
	RParen span.Span
	Inner  Expr
}

// InfixExpr is lhs op rhs.
type InfixExpr struct {
	ExprBase
	Op  Operator
	Lhs Expr
	Rhs Expr
}

// PrefixExpr is op rhs.
type PrefixExpr struct {
	ExprBase
	Op  Operator
	Rhs Expr
}

// PostfixExpr is lhs op.
type PostfixExpr struct {
	ExprBase
	Op  Operator
	Lhs Expr
}

// ApplicationExpr is function application by juxtaposition: f x.
type ApplicationExpr struct {
	ExprBase
	Function Expr
	Arg      Expr
}

// ============================================================
// Values
// ============================================================

// IntegerLit is an integer literal.
type IntegerLit struct {
	ValueBase
	Value int64
}

// FloatLit is a float literal. Raw keeps the source spelling ("3." stays "3.").
type FloatLit struct {
	ValueBase
	Value float64
	Raw   string
}

// BooleanLit is True or False.
type BooleanLit struct {
	ValueBase
	Value bool
}

// Identifier is a name.
type Identifier struct {
	ValueBase
	Name string
}

// Function is a function literal: \args . body. An empty argument list is
// allowed.
type Function struct {
	ValueBase
	Args []*Identifier
	Body Expr
}

// ============================================================
// Traversal helpers
// ============================================================

// Children returns the direct child nodes of n in source order. Operators
// and comments are not included.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *File:
		return stmtNodes(n.Statements)
	case *LetStmt:
		return []Node{n.Ident, n.Expr}
	case *Block:
		return append(stmtNodes(n.Statements), n.Expr)
	case *ParenExpr:
		return []Node{n.Inner}
	case *InfixExpr:
		return []Node{n.Lhs, n.Rhs}
	case *PrefixExpr:
		return []Node{n.Rhs}
	case *PostfixExpr:
		return []Node{n.Lhs}
	case *ApplicationExpr:
		return []Node{n.Function, n.Arg}
	case *Function:
		out := make([]Node, 0, len(n.Args)+1)
		for _, a := range n.Args {
			out = append(out, a)
		}
		return append(out, n.Body)
	default:
		return nil
	}
}

func stmtNodes(stmts []Stmt) []Node {
	out := make([]Node, 0, len(stmts)+1)
	for _, s := range stmts {
		out = append(out, s)
	}
	return out
}

// Inspect walks the tree rooted at n depth-first, calling f on each node
// before its children. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
