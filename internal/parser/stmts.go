package parser

import (
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"oxyl/internal/span"
	"oxyl/internal/token"
)

// lineEnding matches "\n", "\r\n" or the end of input, after any same-line
// whitespace and comments.
var lineEnding = skipSameLine(combinator.Any(combinator.Newline(), combinator.EOI()))

// statement parses one statement with the whitespace and comments around it.
// Comments found there are attached to the statement.
func statement(in input) (fst.Stmt, input, *parseError) {
	p, rest, err := skipAll(letStatement)(in)
	if err != nil {
		return nil, in, err
	}
	attach(p.value, p.comments)
	return p.value, rest, nil
}

// letStatement parses let [mut] ident = expression line_ending. Everything
// after the let keyword is committed.
func letStatement(in input) (fst.Stmt, input, *parseError) {
	kw, rest, err := combinator.Keyword(token.KW_LET)(in)
	if err != nil {
		return nil, in, err
	}
	stmt, rest, err := combinator.Commit(kw, func(in input) (*fst.LetStmt, input, *parseError) {
		return letBody(kw, in)
	})(rest)
	if err != nil {
		return nil, in, err
	}
	return stmt, rest, nil
}

func letBody(kw token.Token, in input) (*fst.LetStmt, input, *parseError) {
	stmt := &fst.LetStmt{}

	mut, rest, err := combinator.Optional(skipSameLine(combinator.Keyword(token.KW_MUT)))(in)
	if err != nil {
		return nil, in, err
	}
	if mut.Ok {
		stmt.Mutable = true
		attach(stmt, mut.Value.comments)
	}

	id, rest, err := skipSameLine(identifier)(rest)
	if err != nil {
		return nil, in, err
	}
	stmt.Ident = id.value
	attach(stmt, id.comments)

	eq, rest, err := skipAll(combinator.Tag(token.ASSIGN))(rest)
	if err != nil {
		return nil, in, err
	}
	attach(stmt, eq.comments)

	expr, rest, err := expressionRequired(rest)
	if err != nil {
		return nil, in, err
	}
	stmt.Expr = expr

	end, rest, err := lineEnding(rest)
	if err != nil {
		return nil, in, err
	}
	attach(stmt, end.comments)

	stmt.Span = span.New(kw.Span.Start, end.value.Span.End)
	return stmt, rest, nil
}
