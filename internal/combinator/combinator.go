package combinator

import (
	"fmt"
	"oxyl/internal/token"
	"unicode/utf8"
)

// Parser is the unit of composition. On success it returns the parsed value and
// the input left over; on failure it returns a non-nil *Error and the input it
// was given, so the caller can try something else from the same spot.
type Parser[T any] func(in Input) (T, Input, *Error)

// Maybe is the result of an Optional parser.
type Maybe[T any] struct {
	Value T
	Ok    bool
}

// ============================================================
// Primitive matchers
// ============================================================

// Tag matches the fixed spelling of kind.
func Tag(kind token.Kind) Parser[token.Token] {
	text := kind.String()
	return func(in Input) (token.Token, Input, *Error) {
		if !in.HasPrefix(text) {
			return token.Token{}, in, Expected(in, kind.Describe())
		}
		rest := in.Advance(len(text))
		return in.Token(kind, rest), rest, nil
	}
}

// Keyword matches the spelling of kind when it is not immediately followed by
// another identifier character, so "let" does not match the start of "letter".
func Keyword(kind token.Kind) Parser[token.Token] {
	text := kind.String()
	return func(in Input) (token.Token, Input, *Error) {
		if !in.HasPrefix(text) {
			return token.Token{}, in, Expected(in, kind.Describe())
		}
		rest := in.Advance(len(text))
		if r, _ := rest.Peek(); !rest.AtEnd() && IsWordRune(r) {
			return token.Token{}, in, Expected(in, kind.Describe())
		}
		return in.Token(kind, rest), rest, nil
	}
}

// TakeWhile1 matches one rune satisfying first followed by any number of runes
// satisfying rest. what names the shape in error messages.
func TakeWhile1(kind token.Kind, what string, first, rest func(rune) bool) Parser[token.Token] {
	return func(in Input) (token.Token, Input, *Error) {
		r, size := in.Peek()
		if size == 0 || !first(r) {
			return token.Token{}, in, Expected(in, what)
		}
		end := in.pos.Offset + size
		for end < len(in.src) {
			r, w := utf8.DecodeRuneInString(in.src[end:])
			if !rest(r) {
				break
			}
			end += w
		}
		after := in.Advance(end - in.pos.Offset)
		return in.Token(kind, after), after, nil
	}
}

// Newline matches "\n" or "\r\n".
func Newline() Parser[token.Token] {
	return func(in Input) (token.Token, Input, *Error) {
		switch {
		case in.HasPrefix("\r\n"):
			rest := in.Advance(2)
			return in.Token(token.NEWLINE, rest), rest, nil
		case in.HasPrefix("\n"):
			rest := in.Advance(1)
			return in.Token(token.NEWLINE, rest), rest, nil
		}
		return token.Token{}, in, Expected(in, "newline")
	}
}

// EOI succeeds with a zero-width token only when the input is exhausted.
func EOI() Parser[token.Token] {
	return func(in Input) (token.Token, Input, *Error) {
		if !in.AtEnd() {
			return token.Token{}, in, Expected(in, "end of input")
		}
		return in.Token(token.EOF, in), in, nil
	}
}

// ============================================================
// Combinators
// ============================================================

// Any tries each parser in order from the same input and returns the first
// success. Fatal failures stop the search and are returned untouched;
// recoverable ones are collected into an AllFailed error.
func Any[T any](ps ...Parser[T]) Parser[T] {
	return func(in Input) (T, Input, *Error) {
		var zero T
		var errs []*Error
		for _, p := range ps {
			v, rest, err := p(in)
			if err == nil {
				return v, rest, nil
			}
			if err.Fatal {
				return zero, in, err
			}
			errs = append(errs, err)
		}
		if len(errs) == 1 {
			return zero, in, errs[0]
		}
		return zero, in, &Error{Kind: AllFailed, Pos: in.Position(), Errors: errs}
	}
}

// Many applies p until it fails recoverably or stops consuming input.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(in Input) ([]T, Input, *Error) {
		var out []T
		for {
			v, rest, err := p(in)
			if err != nil {
				if err.Fatal {
					return nil, in, err
				}
				return out, in, nil
			}
			if rest.Offset() == in.Offset() {
				return out, in, nil
			}
			out = append(out, v)
			in = rest
		}
	}
}

// Optional turns a recoverable failure of p into an absent result.
func Optional[T any](p Parser[T]) Parser[Maybe[T]] {
	return func(in Input) (Maybe[T], Input, *Error) {
		v, rest, err := p(in)
		if err != nil {
			if err.Fatal {
				return Maybe[T]{}, in, err
			}
			return Maybe[T]{}, in, nil
		}
		return Maybe[T]{Value: v, Ok: true}, rest, nil
	}
}

// Separated parses zero or more items separated by sep. With trailing set, a
// separator after the last item is consumed too.
func Separated[T, S any](item Parser[T], sep Parser[S], trailing bool) Parser[[]T] {
	return func(in Input) ([]T, Input, *Error) {
		first, rest, err := item(in)
		if err != nil {
			if err.Fatal {
				return nil, in, err
			}
			return nil, in, nil
		}
		out := []T{first}
		for {
			_, afterSep, err := sep(rest)
			if err != nil {
				if err.Fatal {
					return nil, in, err
				}
				return out, rest, nil
			}
			v, afterItem, err := item(afterSep)
			if err != nil {
				if err.Fatal {
					return nil, in, err
				}
				if trailing {
					return out, afterSep, nil
				}
				return out, rest, nil
			}
			out = append(out, v)
			rest = afterItem
		}
	}
}

// Map transforms the result of a successful parse.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(in Input) (B, Input, *Error) {
		a, rest, err := p(in)
		if err != nil {
			var zero B
			return zero, in, err
		}
		return f(a), rest, nil
	}
}

// TryMap is Map with a fallible conversion. The input already matched the
// expected shape, so a conversion failure is fatal: no other alternative
// would read the same text differently.
func TryMap[A, B any](p Parser[A], f func(A) (B, error)) Parser[B] {
	return func(in Input) (B, Input, *Error) {
		var zero B
		a, rest, err := p(in)
		if err != nil {
			return zero, in, err
		}
		b, cerr := f(a)
		if cerr != nil {
			return zero, in, &Error{
				Kind:  NumericConversion,
				Pos:   in.Position(),
				Found: "'" + in.Slice(rest) + "'",
				Cause: cerr,
				Fatal: true,
			}
		}
		return b, rest, nil
	}
}

// Commit runs p after opener has already been consumed. Any failure of p is
// fatal from here on and is reported as an unclosed construct that remembers
// opener; fatal failures from deeper commits pass through unchanged.
func Commit[T any](opener token.Token, p Parser[T]) Parser[T] {
	return func(in Input) (T, Input, *Error) {
		v, rest, err := p(in)
		if err == nil {
			return v, rest, nil
		}
		if err.Fatal {
			return v, in, err
		}
		op := opener
		return v, in, &Error{
			Kind:   UnclosedDelimiter,
			Pos:    err.Deepest().Pos,
			Opener: &op,
			Errors: []*Error{err},
			Fatal:  true,
		}
	}
}

// Label replaces a recoverable failure that made no progress with a single
// "expected what" error, so callers see "expected expression" rather than the
// list of every alternative tried.
func Label[T any](what string, p Parser[T]) Parser[T] {
	return func(in Input) (T, Input, *Error) {
		v, rest, err := p(in)
		if err == nil || err.Fatal {
			return v, rest, err
		}
		if err.Deepest().Pos.Offset > in.Offset() {
			return v, in, err
		}
		return v, in, Expected(in, what)
	}
}

// NotFollowedBy succeeds like p unless the input after p starts with one of
// forbidden.
func NotFollowedBy[T any](p Parser[T], forbidden ...string) Parser[T] {
	return func(in Input) (T, Input, *Error) {
		v, rest, err := p(in)
		if err != nil {
			return v, in, err
		}
		for _, f := range forbidden {
			if rest.HasPrefix(f) {
				var zero T
				what := fmt.Sprintf("'%s' not followed by '%s'", in.Slice(rest), f)
				return zero, in, Expected(in, what)
			}
		}
		return v, rest, nil
	}
}
