package fst

import "sort"

// CollectComments returns every comment attached anywhere under n, ordered by
// source position.
func CollectComments(n Node) []Comment {
	var out []Comment
	Inspect(n, func(node Node) bool {
		if c, ok := node.(Commented); ok {
			out = append(out, c.Comments()...)
		}
		switch node := node.(type) {
		case *InfixExpr:
			out = append(out, node.Op.Trivia...)
		case *PrefixExpr:
			out = append(out, node.Op.Trivia...)
		case *PostfixExpr:
			out = append(out, node.Op.Trivia...)
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Offset < out[j].Span.Start.Offset
	})
	return out
}
