package combinator

import (
	"fmt"
	"oxyl/internal/span"
	"oxyl/internal/token"
	"strings"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// ExpectedToken: a specific token or construct was required and not found.
	ExpectedToken ErrorKind = iota
	// NumericConversion: a literal had numeric shape but did not convert.
	NumericConversion
	// UnclosedDelimiter: a committing opener was seen but its continuation failed.
	UnclosedDelimiter
	// AllFailed: every alternative of a choice failed at the same position.
	AllFailed
	// Construct: a node constructor rejected its operands.
	Construct
)

func (k ErrorKind) String() string {
	switch k {
	case ExpectedToken:
		return "expected token"
	case NumericConversion:
		return "numeric conversion"
	case UnclosedDelimiter:
		return "unclosed delimiter"
	case AllFailed:
		return "all alternatives failed"
	case Construct:
		return "invalid construct"
	default:
		return "unknown"
	}
}

// Error is a structured parse failure. A recoverable error (Fatal == false)
// tells the enclosing choice to try its next alternative; a fatal one aborts
// the whole parse.
type Error struct {
	Kind     ErrorKind
	Pos      span.Position
	Expected string       // ExpectedToken: what was required
	Found    string       // ExpectedToken, NumericConversion: what was there
	Opener   *token.Token // UnclosedDelimiter: the committing token
	Cause    error        // NumericConversion, Construct
	Errors   []*Error     // AllFailed, UnclosedDelimiter: contributing failures
	Fatal    bool
}

// Expected returns a recoverable ExpectedToken error at the cursor.
func Expected(in Input, what string) *Error {
	return &Error{
		Kind:     ExpectedToken,
		Pos:      in.Position(),
		Expected: what,
		Found:    in.describe(),
	}
}

// Error implements the error interface: "line:col: message".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Position(), e.Message())
}

// Position returns where the most specific failure happened.
func (e *Error) Position() span.Position {
	return e.Deepest().Pos
}

// Message renders the error without its position.
func (e *Error) Message() string {
	switch e.Kind {
	case ExpectedToken:
		return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
	case NumericConversion:
		return fmt.Sprintf("invalid numeric literal %s: %v", e.Found, e.Cause)
	case Construct:
		return fmt.Sprintf("invalid expression: %v", e.Cause)
	case UnclosedDelimiter:
		inner := "incomplete construct"
		if len(e.Errors) > 0 {
			inner = e.Errors[0].Message()
		}
		if e.Opener == nil {
			return inner
		}
		return fmt.Sprintf("%s (after '%s' at %s)", inner, e.Opener.Lexeme, e.Opener.Span.Start)
	case AllFailed:
		return e.aggregateMessage()
	default:
		return e.Kind.String()
	}
}

// aggregateMessage merges the leaves that got furthest into one
// "expected a, b or c" message.
func (e *Error) aggregateMessage() string {
	leaves := e.frontier()
	if len(leaves) == 0 {
		return "no alternative matched"
	}
	var expected []string
	seen := map[string]bool{}
	found := ""
	for _, l := range leaves {
		if l.Kind != ExpectedToken {
			return l.Message()
		}
		found = l.Found
		if !seen[l.Expected] {
			seen[l.Expected] = true
			expected = append(expected, l.Expected)
		}
	}
	return fmt.Sprintf("expected %s, found %s", joinAlternatives(expected), found)
}

func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return "nothing"
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// Unwrap exposes the contributing failures to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	var errs []error
	for _, sub := range e.Errors {
		errs = append(errs, sub)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Leaves returns every non-aggregate failure under e, in order.
func (e *Error) Leaves() []*Error {
	if len(e.Errors) == 0 || (e.Kind != AllFailed && e.Kind != UnclosedDelimiter) {
		return []*Error{e}
	}
	var out []*Error
	for _, sub := range e.Errors {
		out = append(out, sub.Leaves()...)
	}
	return out
}

// Deepest returns the leaf failure that got furthest into the input; the
// first one wins a tie.
func (e *Error) Deepest() *Error {
	var best *Error
	for _, l := range e.Leaves() {
		if best == nil || best.Pos.Before(l.Pos) {
			best = l
		}
	}
	if best == nil {
		return e
	}
	return best
}

// frontier returns all leaves sharing the deepest position.
func (e *Error) frontier() []*Error {
	deepest := e.Deepest()
	var out []*Error
	for _, l := range e.Leaves() {
		if l.Pos.Offset == deepest.Pos.Offset {
			out = append(out, l)
		}
	}
	return out
}

// Commits returns the chain of committing openers from outermost to innermost.
func (e *Error) Commits() []token.Token {
	var out []token.Token
	for cur := e; cur != nil; {
		if cur.Kind != UnclosedDelimiter {
			break
		}
		if cur.Opener != nil {
			out = append(out, *cur.Opener)
		}
		if len(cur.Errors) == 0 {
			break
		}
		cur = cur.Errors[0]
	}
	return out
}

func (e *Error) asFatal() *Error {
	if e.Fatal {
		return e
	}
	cp := *e
	cp.Fatal = true
	return &cp
}
