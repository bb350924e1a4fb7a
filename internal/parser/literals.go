package parser

import (
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"oxyl/internal/token"
	"strconv"
)

var (
	wordToken   = combinator.TakeWhile1(token.IDENT, "identifier", combinator.IsIdentStart, combinator.IsIdentPart)
	digitsToken = combinator.TakeWhile1(token.INT, "integer literal", combinator.IsDigit, combinator.IsDigit)
)

// identifier parses a name that is not a reserved word.
func identifier(in input) (*fst.Identifier, input, *parseError) {
	tok, rest, err := wordToken(in)
	if err != nil {
		return nil, in, err
	}
	if token.LookupIdent(tok.Lexeme).IsKeyword() {
		return nil, in, combinator.Expected(in, "identifier")
	}
	id := &fst.Identifier{Name: tok.Lexeme}
	id.Span = tok.Span
	return id, rest, nil
}

// floatToken matches digits "." digits?. On any mismatch it fails at its
// starting position so a plain integer does not look like a deeper error.
func floatToken(in input) (token.Token, input, *parseError) {
	_, rest, err := digitsToken(in)
	if err != nil || !rest.HasPrefix(".") {
		return token.Token{}, in, combinator.Expected(in, "float literal")
	}
	rest = rest.Advance(1)
	if _, more, err := digitsToken(rest); err == nil {
		rest = more
	}
	return in.Token(token.FLOAT, rest), rest, nil
}

var floatLiteral = combinator.TryMap(floatToken, func(tok token.Token) (fst.Value, error) {
	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		return nil, err
	}
	lit := &fst.FloatLit{Value: v, Raw: tok.Lexeme}
	lit.Span = tok.Span
	return lit, nil
})

var integerLiteral = combinator.TryMap(digitsToken, func(tok token.Token) (fst.Value, error) {
	v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return nil, err
	}
	lit := &fst.IntegerLit{Value: v}
	lit.Span = tok.Span
	return lit, nil
})

func booleanWord(kind token.Kind, value bool) combinator.Parser[fst.Value] {
	return combinator.Map(combinator.Keyword(kind), func(tok token.Token) fst.Value {
		lit := &fst.BooleanLit{Value: value}
		lit.Span = tok.Span
		return lit
	})
}

var booleanLiteral = combinator.Any(
	booleanWord(token.KW_TRUE, true),
	booleanWord(token.KW_FALSE, false),
)

// value parses a literal, function literal or identifier. Floats come before
// integers since every float starts with an integer.
func value(in input) (fst.Value, input, *parseError) {
	return combinator.Any[fst.Value](
		floatLiteral,
		integerLiteral,
		booleanLiteral,
		functionValue,
		identValue,
	)(in)
}

func identValue(in input) (fst.Value, input, *parseError) {
	id, rest, err := identifier(in)
	if err != nil {
		return nil, in, err
	}
	return id, rest, nil
}
