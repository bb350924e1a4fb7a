// Package combinator implements the backtracking parser engine the oxyl grammar is
// written in: an immutable input cursor, small composable parsers, a choice/commit
// error discipline, and a precedence-climbing (Pratt) expression engine.
package combinator

import (
	"oxyl/internal/span"
	"oxyl/internal/token"
	"strings"
	"unicode/utf8"
)

// Input is an immutable cursor into a source buffer. Parsers take an Input and
// return a new one; backtracking is simply reusing an earlier value.
type Input struct {
	src string
	pos span.Position
}

// NewInput returns a cursor at the start of src.
func NewInput(src string) Input {
	return Input{src: src, pos: span.Start}
}

// Source returns the full buffer the cursor points into.
func (in Input) Source() string {
	return in.src
}

// Position returns the current position.
func (in Input) Position() span.Position {
	return in.pos
}

// Offset returns the current byte offset.
func (in Input) Offset() int {
	return in.pos.Offset
}

// Rest returns the unconsumed part of the buffer.
func (in Input) Rest() string {
	return in.src[in.pos.Offset:]
}

// AtEnd reports whether the whole buffer has been consumed.
func (in Input) AtEnd() bool {
	return in.pos.Offset >= len(in.src)
}

// Peek returns the current rune and its width, or (0, 0) at end of input.
func (in Input) Peek() (rune, int) {
	if in.AtEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(in.Rest())
}

// PeekAt returns the rune n bytes ahead of the cursor, or 0 past the end.
func (in Input) PeekAt(n int) rune {
	off := in.pos.Offset + n
	if off >= len(in.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(in.src[off:])
	return r
}

// HasPrefix reports whether the unconsumed input starts with s.
func (in Input) HasPrefix(s string) bool {
	return strings.HasPrefix(in.Rest(), s)
}

// Advance consumes n bytes, keeping line and column in sync.
func (in Input) Advance(n int) Input {
	end := in.pos.Offset + n
	if end > len(in.src) {
		end = len(in.src)
	}
	for in.pos.Offset < end {
		r, size := utf8.DecodeRuneInString(in.src[in.pos.Offset:])
		in.pos.Offset += size
		if r == '\n' {
			in.pos.Line++
			in.pos.Column = 1
		} else {
			in.pos.Column++
		}
	}
	return in
}

// AdvanceRune consumes one rune.
func (in Input) AdvanceRune() Input {
	_, size := in.Peek()
	return in.Advance(size)
}

// SpanTo returns the span from this cursor to end.
func (in Input) SpanTo(end Input) span.Span {
	return span.New(in.pos, end.pos)
}

// Slice returns the text between this cursor and end.
func (in Input) Slice(end Input) string {
	if end.pos.Offset < in.pos.Offset {
		return ""
	}
	return in.src[in.pos.Offset:end.pos.Offset]
}

// Token builds a token of the given kind covering [in, end).
func (in Input) Token(kind token.Kind, end Input) token.Token {
	return token.Token{Kind: kind, Lexeme: in.Slice(end), Span: in.SpanTo(end)}
}

// describe returns a short quoted description of what sits at the cursor,
// for "found ..." messages.
func (in Input) describe() string {
	if in.AtEnd() {
		return "end of input"
	}
	if in.HasPrefix("\n") || in.HasPrefix("\r\n") {
		return "newline"
	}
	rest := in.Rest()
	r, size := utf8.DecodeRuneInString(rest)
	if IsWordRune(r) {
		end := 0
		for end < len(rest) {
			r, size := utf8.DecodeRuneInString(rest[end:])
			if !IsWordRune(r) {
				break
			}
			end += size
		}
		return "'" + rest[:end] + "'"
	}
	return "'" + rest[:size] + "'"
}
