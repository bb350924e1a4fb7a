package parser

import (
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"oxyl/internal/span"
	"oxyl/internal/token"
)

// ============================================================
// Operator table
// ============================================================

// exprEngine is built in init because the grammar is mutually recursive:
// atoms contain blocks and parentheses, which contain expressions.
var exprEngine *combinator.Pratt[fst.Expr, fst.Operator]

func init() {
	cons := combinator.Constructors[fst.Expr, fst.Operator]{
		Prefix:  consPrefix,
		Infix:   consInfix,
		Postfix: consPostfix,
	}
	// Highest binding first.
	exprEngine = combinator.NewPratt[fst.Expr, fst.Operator](atom, cons).
		WithInfix(combinator.Right, operator(token.DOT)).
		WithPrefix(operator(token.MINUS)).
		WithInfix(combinator.Right, operator(token.TRIANGLE)).
		WithInfix(combinator.Left, operator(token.STAR), operator(token.SLASH, "/", "*")).
		WithInfix(combinator.Left, operator(token.PLUS), operator(token.MINUS))
}

// operator matches an operator token. Same-line space and comments may
// precede it; any whitespace may follow it, so an expression can continue on
// the next line after a trailing operator. Spellings in notFollowedBy must
// not come right after the token ("//" is a comment, not two slashes).
func operator(kind token.Kind, notFollowedBy ...string) combinator.Parser[fst.Operator] {
	tag := combinator.Tag(kind)
	if len(notFollowedBy) > 0 {
		tag = combinator.NotFollowedBy(tag, notFollowedBy...)
	}
	opKind, _ := fst.OperatorKindOf(kind)
	return combinator.Map(pad(tag, false, true), func(p padded[token.Token]) fst.Operator {
		op := fst.Operator{Kind: opKind}
		op.Span = p.value.Span
		op.Trivia = p.comments
		return op
	})
}

func consPrefix(op fst.Operator, rhs fst.Expr) (fst.Expr, error) {
	e := &fst.PrefixExpr{Op: op, Rhs: rhs}
	e.Span = span.Union(op.Span, rhs.Location())
	return e, nil
}

func consInfix(lhs fst.Expr, op fst.Operator, rhs fst.Expr) (fst.Expr, error) {
	e := &fst.InfixExpr{Op: op, Lhs: lhs, Rhs: rhs}
	e.Span = span.Union(lhs.Location(), rhs.Location())
	return e, nil
}

func consPostfix(lhs fst.Expr, op fst.Operator) (fst.Expr, error) {
	e := &fst.PostfixExpr{Op: op, Lhs: lhs}
	e.Span = span.Union(lhs.Location(), op.Span)
	return e, nil
}

// ============================================================
// Expressions
// ============================================================

// expression parses a full operator expression.
func expression(in input) (fst.Expr, input, *parseError) {
	return exprEngine.Parser()(in)
}

// expressionRequired is expression with a single "expected expression"
// error when nothing matches at all.
func expressionRequired(in input) (fst.Expr, input, *parseError) {
	return combinator.Label[fst.Expr]("expression", expression)(in)
}

// atom parses one simple atom and then any atoms juxtaposed after it on the
// same line, folding them into a left-associative application chain.
func atom(in input) (fst.Expr, input, *parseError) {
	first, rest, err := simpleAtom(in)
	if err != nil {
		return nil, in, err
	}
	next, after, err := atom(rest)
	if err != nil {
		if err.Fatal {
			return nil, in, err
		}
		return first, rest, nil
	}
	return reassociate(first, next), after, nil
}

// reassociate combines left with a right-hand chain that the recursive atom
// parser grouped to the right. f (g h) parsed as a chain becomes (f g) h,
// recursively, so chains of any length come out left-associative.
// Parenthesized arguments are ParenExpr nodes and are left alone.
func reassociate(left, right fst.Expr) fst.Expr {
	if app, ok := right.(*fst.ApplicationExpr); ok {
		return reassociate(reassociate(left, app.Function), app.Arg)
	}
	e := &fst.ApplicationExpr{Function: left, Arg: right}
	e.Span = span.Union(left.Location(), right.Location())
	return e
}

// simpleAtom is a value, block or parenthesized expression, each with the
// same-line whitespace and comments around it.
func simpleAtom(in input) (fst.Expr, input, *parseError) {
	return combinator.Any[fst.Expr](
		withComments(skipSameLine(value)),
		withComments(skipSameLine(block)),
		withComments(skipSameLine(parenthesized)),
	)(in)
}

// withComments attaches the skipped comments to the parsed expression.
func withComments[T fst.Expr](p combinator.Parser[padded[T]]) combinator.Parser[fst.Expr] {
	return combinator.Map(p, func(v padded[T]) fst.Expr {
		attach(v.value, v.comments)
		return v.value
	})
}

// block parses "{" statement* expression "}". Everything after the opening
// brace is committed.
func block(in input) (*fst.Block, input, *parseError) {
	open, rest, err := combinator.Tag(token.LBRACE)(in)
	if err != nil {
		return nil, in, err
	}
	b, rest, err := combinator.Commit(open, func(in input) (*fst.Block, input, *parseError) {
		b := &fst.Block{}
		stmts, rest, err := combinator.Many(statement)(in)
		if err != nil {
			return nil, in, err
		}
		b.Statements = stmts

		expr, rest, err := skipAll(expressionRequired)(rest)
		if err != nil {
			return nil, in, err
		}
		b.Expr = expr.value
		attach(b, expr.comments)

		closing, rest, err := closingDelimiter(token.RBRACE)(rest)
		if err != nil {
			return nil, in, err
		}
		attach(b, closing.comments)
		b.Span = span.New(open.Span.Start, closing.value.Span.End)
		return b, rest, nil
	})(rest)
	if err != nil {
		return nil, in, err
	}
	return b, rest, nil
}

// closingDelimiter skips any whitespace before a closing delimiter but none
// after it: what follows is decided by the enclosing atom.
func closingDelimiter(kind token.Kind) combinator.Parser[padded[token.Token]] {
	return pad(combinator.Tag(kind), true, false)
}

// parenthesized parses "(" expression ")", keeping both delimiter spans.
func parenthesized(in input) (*fst.ParenExpr, input, *parseError) {
	open, rest, err := combinator.Tag(token.LPAREN)(in)
	if err != nil {
		return nil, in, err
	}
	e, rest, err := combinator.Commit(open, func(in input) (*fst.ParenExpr, input, *parseError) {
		inner, rest, err := skipAll(expressionRequired)(in)
		if err != nil {
			return nil, in, err
		}
		closing, rest, err := closingDelimiter(token.RPAREN)(rest)
		if err != nil {
			return nil, in, err
		}
		e := &fst.ParenExpr{
			LParen: open.Span,
			RParen: closing.value.Span,
			Inner:  inner.value,
		}
		e.Span = span.Union(open.Span, closing.value.Span)
		attach(e, inner.comments)
		attach(e, closing.comments)
		return e, rest, nil
	})(rest)
	if err != nil {
		return nil, in, err
	}
	return e, rest, nil
}

// functionValue parses \ args . body. Arguments are comma separated with an
// optional trailing comma and may be absent. A backslash does not commit.
func functionValue(in input) (fst.Value, input, *parseError) {
	bs, rest, err := combinator.Tag(token.BACKSLASH)(in)
	if err != nil {
		return nil, in, err
	}
	fn := &fst.Function{}

	args, rest, err := combinator.Separated(
		skipAll(identifier),
		combinator.Tag(token.COMMA),
		true,
	)(rest)
	if err != nil {
		return nil, in, err
	}
	for _, a := range args {
		fn.Args = append(fn.Args, a.value)
		attach(fn, a.comments)
	}

	dot, rest, err := skipAll(combinator.Tag(token.DOT))(rest)
	if err != nil {
		return nil, in, err
	}
	attach(fn, dot.comments)

	body, rest, err := expressionRequired(rest)
	if err != nil {
		return nil, in, err
	}
	fn.Body = body
	fn.Span = span.Union(bs.Span, body.Location())
	return fn, rest, nil
}
