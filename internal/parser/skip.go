package parser

import (
	"oxyl/internal/combinator"
	"oxyl/internal/fst"
	"oxyl/internal/token"
	"strings"
)

// padded is a parse result together with the comments skipped around it.
type padded[T any] struct {
	value    T
	comments []fst.Comment
}

// skipAll runs p between two runs of whitespace (newlines included) and
// comments.
func skipAll[T any](p combinator.Parser[T]) combinator.Parser[padded[T]] {
	return pad(p, true, true)
}

// skipSameLine runs p between two runs of whitespace and comments that never
// cross a newline.
func skipSameLine[T any](p combinator.Parser[T]) combinator.Parser[padded[T]] {
	return pad(p, false, false)
}

func pad[T any](p combinator.Parser[T], newlinesBefore, newlinesAfter bool) combinator.Parser[padded[T]] {
	return func(in input) (padded[T], input, *parseError) {
		before, rest, err := trivia(in, newlinesBefore)
		if err != nil {
			return padded[T]{}, in, err
		}
		v, rest, err := p(rest)
		if err != nil {
			return padded[T]{}, in, err
		}
		after, rest, err := trivia(rest, newlinesAfter)
		if err != nil {
			return padded[T]{}, in, err
		}
		return padded[T]{value: v, comments: append(before, after...)}, rest, nil
	}
}

// trivia consumes whitespace and comments. With newlines unset it stops in
// front of "\n" and "\r\n".
func trivia(in input, newlines bool) ([]fst.Comment, input, *parseError) {
	var comments []fst.Comment
	for {
		switch {
		case in.HasPrefix("\r\n") || in.HasPrefix("\n"):
			if !newlines {
				return comments, in, nil
			}
			in = in.AdvanceRune()
		case in.HasPrefix("//"):
			c, rest := lineComment(in)
			comments = append(comments, c)
			in = rest
		case in.HasPrefix("/*"):
			c, rest, err := blockComment(in)
			if err != nil {
				return nil, in, err
			}
			comments = append(comments, c)
			in = rest
		default:
			r, size := in.Peek()
			if size == 0 || !combinator.IsInlineSpace(r) {
				return comments, in, nil
			}
			in = in.Advance(size)
		}
	}
}

// lineComment reads "//" up to, not including, the line ending.
func lineComment(in input) (fst.Comment, input) {
	rest := in.Rest()
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		end = len(rest)
	}
	if end > 0 && rest[end-1] == '\r' {
		end--
	}
	after := in.Advance(end)
	return fst.Comment{
		Span:     in.SpanTo(after),
		Contents: rest[2:end],
		Style:    fst.LineComment,
	}, after
}

// blockComment reads "/* ... */". Block comments do not nest. A missing
// terminator is fatal.
func blockComment(in input) (fst.Comment, input, *parseError) {
	rest := in.Rest()
	end := strings.Index(rest[2:], "*/")
	if end < 0 {
		opener := in.Token(token.COMMENT, in.Advance(2))
		eoi := in.Advance(len(rest))
		return fst.Comment{}, in, &parseError{
			Kind:   combinator.UnclosedDelimiter,
			Pos:    eoi.Position(),
			Opener: &opener,
			Errors: []*parseError{combinator.Expected(eoi, "'*/'")},
			Fatal:  true,
		}
	}
	after := in.Advance(end + 4)
	return fst.Comment{
		Span:     in.SpanTo(after),
		Contents: rest[2 : end+2],
		Style:    fst.BlockComment,
	}, after, nil
}

// attach adds comments to a node under construction.
func attach(n fst.Node, comments []fst.Comment) {
	if len(comments) == 0 {
		return
	}
	if a, ok := n.(interface{ AddComments(...fst.Comment) }); ok {
		a.AddComments(comments...)
	}
}
