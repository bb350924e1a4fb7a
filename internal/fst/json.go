package fst

import (
	"oxyl/internal/span"
)

// NodeToMap converts an FST node to a map suitable for JSON or YAML
// serialization. This produces a tagged-union structure: every node has a
// "kind" and a "span" field, and nodes with attached comments get a
// "comments" list.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}
	return Accept[map[string]interface{}](node, mapper{})
}

type mapper struct{}

func (mp mapper) VisitFile(f *File) map[string]interface{} {
	return m("File", f.NodeBase, "statements", stmtSlice(f.Statements))
}

func (mp mapper) VisitStatement(s Stmt) map[string]interface{} {
	switch s := s.(type) {
	case *LetStmt:
		return m("Let", s.NodeBase,
			"mutable", s.Mutable,
			"ident", NodeToMap(s.Ident),
			"expr", NodeToMap(s.Expr))
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

func (mp mapper) VisitExpression(e Expr) map[string]interface{} {
	switch e := e.(type) {
	case *ParenExpr:
		return m("Parenthesized", e.NodeBase,
			"lparen", spanToMap(e.LParen),
			"rparen", spanToMap(e.RParen),
			"inner", NodeToMap(e.Inner))
	case *InfixExpr:
		return m("Infix", e.NodeBase,
			"op", opToMap(e.Op),
			"lhs", NodeToMap(e.Lhs),
			"rhs", NodeToMap(e.Rhs))
	case *PrefixExpr:
		return m("Prefix", e.NodeBase, "op", opToMap(e.Op), "rhs", NodeToMap(e.Rhs))
	case *PostfixExpr:
		return m("Postfix", e.NodeBase, "op", opToMap(e.Op), "lhs", NodeToMap(e.Lhs))
	case *ApplicationExpr:
		return m("Application", e.NodeBase,
			"function", NodeToMap(e.Function),
			"arg", NodeToMap(e.Arg))
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

func (mp mapper) VisitValue(v Value) map[string]interface{} {
	switch v := v.(type) {
	case *IntegerLit:
		return m("Integer", v.NodeBase, "value", v.Value)
	case *FloatLit:
		return m("Floating", v.NodeBase, "value", v.Value, "raw", v.Raw)
	case *BooleanLit:
		return m("Boolean", v.NodeBase, "value", v.Value)
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

func (mp mapper) VisitIdent(id *Identifier) map[string]interface{} {
	return m("Identifier", id.NodeBase, "name", id.Name)
}

func (mp mapper) VisitFunction(fn *Function) map[string]interface{} {
	args := make([]interface{}, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = NodeToMap(a)
	}
	return m("Function", fn.NodeBase, "args", args, "body", NodeToMap(fn.Body))
}

func (mp mapper) VisitBlock(b *Block) map[string]interface{} {
	return m("Block", b.NodeBase,
		"statements", stmtSlice(b.Statements),
		"expr", NodeToMap(b.Expr))
}

// ---- helpers ----

// m builds a map with kind, span, comments and extra key-value pairs.
func m(kind string, base NodeBase, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(base.Span),
	}
	if len(base.Trivia) > 0 {
		result["comments"] = commentSlice(base.Trivia)
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func opToMap(op Operator) map[string]interface{} {
	return m("Operator", op.NodeBase, "op", op.Kind.String())
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func commentSlice(comments []Comment) []interface{} {
	result := make([]interface{}, len(comments))
	for i, c := range comments {
		result[i] = map[string]interface{}{
			"style":    c.Style.String(),
			"contents": c.Contents,
			"span":     spanToMap(c.Span),
		}
	}
	return result
}
