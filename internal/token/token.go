// Package token defines the spellings and token shapes the oxyl grammar matches.
package token

import (
	"fmt"
	"oxyl/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE
	COMMENT

	// Literals
	IDENT // identifiers: x, foo, y_1
	INT   // integer literals: 123
	FLOAT // float literals: 3.14, 3.

	// Operators
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	TRIANGLE    // |>
	DOT         // .
	DOUBLECOLON // ::

	// Delimiters
	ASSIGN    // =
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	BACKSLASH // \
	COMMA     // ,

	// Keywords
	KW_LET
	KW_MUT
	KW_TRUE
	KW_FALSE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",
	COMMENT: "COMMENT",

	IDENT: "IDENT",
	INT:   "INT",
	FLOAT: "FLOAT",

	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
	TRIANGLE:    "|>",
	DOT:         ".",
	DOUBLECOLON: "::",

	ASSIGN:    "=",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	BACKSLASH: "\\",
	COMMA:     ",",

	KW_LET:   "let",
	KW_MUT:   "mut",
	KW_TRUE:  "True",
	KW_FALSE: "False",
}

// String returns the human-readable name for a token kind. For fixed-spelling
// kinds this is exactly the text the grammar matches.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_FALSE
}

// IsLiteral returns true if the kind is a literal shape (ident/int/float).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= FLOAT
}

// IsOperator returns true if the kind is an expression operator.
func (k Kind) IsOperator() bool {
	return k >= PLUS && k <= DOUBLECOLON
}

// Describe returns the kind in the form used by diagnostics: quoted spelling
// for fixed tokens, a noun for token shapes.
func (k Kind) Describe() string {
	switch k {
	case IDENT:
		return "identifier"
	case INT:
		return "integer literal"
	case FLOAT:
		return "float literal"
	case NEWLINE:
		return "newline"
	case EOF:
		return "end of input"
	case COMMENT:
		return "comment"
	case ILLEGAL:
		return "illegal token"
	default:
		return fmt.Sprintf("'%s'", k)
	}
}

var keywords = map[string]Kind{
	"let":   KW_LET,
	"mut":   KW_MUT,
	"True":  KW_TRUE,
	"False": KW_FALSE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a matched piece of source with its kind, text, and location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
