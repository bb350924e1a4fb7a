// Package parser implements the syntax analysis for oxyl. It is written as
// combinators over an immutable input cursor: recursive descent for
// statements, blocks and function literals, Pratt parsing for operators, and
// a reassociation pass for juxtaposed function application.
//
// Whitespace is significant only at line ends, where a let statement must
// stop. Every call site therefore picks between skipping all whitespace and
// skipping only within the current line.
package parser

import (
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"oxyl/internal/span"
)

type (
	input      = combinator.Input
	parseError = combinator.Error
)

// Parse parses a whole source file. The returned error, if any, is a
// *combinator.Error. Parse does not panic on malformed input.
func Parse(src string) (*fst.File, error) {
	file, err := parseFile(combinator.NewInput(src))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// ParseExpression parses src as a single expression surrounded by optional
// whitespace and comments.
func ParseExpression(src string) (fst.Expr, error) {
	in := combinator.NewInput(src)
	p, rest, err := skipAll(expressionRequired)(in)
	if err != nil {
		return nil, err
	}
	if _, _, err := combinator.EOI()(rest); err != nil {
		return nil, err
	}
	attach(p.value, p.comments)
	return p.value, nil
}

func parseFile(in input) (*fst.File, *parseError) {
	file := &fst.File{Statements: []fst.Stmt{}}
	for {
		comments, rest, err := trivia(in, true)
		if err != nil {
			return nil, err
		}
		if rest.AtEnd() {
			file.Trivia = comments
			in = rest
			break
		}
		stmt, next, err := statement(in)
		if err != nil {
			return nil, err
		}
		file.Statements = append(file.Statements, stmt)
		in = next
	}
	file.Span = span.New(span.Start, in.Position())
	return file, nil
}
