// Package diag provides diagnostic (error/warning) types for the toolchain.
package diag

import (
	"errors"
	"fmt"
	"oxyl/internal/combinator"
	"oxyl/internal/span"
	"sort"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText lets JSON and YAML dumps show the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stable diagnostic codes.
const (
	CodeExpected   = "E2001" // a token or construct was required and not found
	CodeNumeric    = "E2002" // numeric literal out of range
	CodeUnclosed   = "E2003" // committed construct left incomplete
	CodeConstruct  = "E2004" // operator applied to operands it cannot take
	CodeUnbound    = "W3001" // reference to a name with no binding in scope
	CodeShadowed   = "W3002" // let rebinds a name already bound in the same scope
	CodeUnexpected = "E0001" // failure that did not come from the parser
)

// Diagnostic represents a toolchain diagnostic message.
type Diagnostic struct {
	Code     string    `json:"code" yaml:"code"`                     // stable code, e.g. "E2001"
	Severity Severity  `json:"severity" yaml:"severity"`             // error or warning
	Message  string    `json:"message" yaml:"message"`               // human-readable description
	Span     span.Span `json:"span" yaml:"span"`                     // source location
	Hint     string    `json:"hint,omitempty" yaml:"hint,omitempty"` // optional hint
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, prefix, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by source position, keeping the relative order of
// diagnostics at the same position.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Span.Start.Before(diags[j].Span.Start)
	})
}

// FromParseError converts a parser failure into a diagnostic. The primary
// location is the failure that got furthest into the input; when the failure
// happened inside a committed construct the hint names the token that
// started it. Errors that are not parse errors get CodeUnexpected and no
// location.
func FromParseError(err error) Diagnostic {
	var pe *combinator.Error
	if !errors.As(err, &pe) {
		return Diagnostic{Code: CodeUnexpected, Severity: Error, Message: err.Error()}
	}

	inner := pe
	for inner.Kind == combinator.UnclosedDelimiter && len(inner.Errors) > 0 {
		inner = inner.Errors[0]
	}

	d := Diagnostic{
		Severity: Error,
		Message:  inner.Message(),
		Span:     span.Point(pe.Position()),
	}
	switch inner.Kind {
	case combinator.NumericConversion:
		d.Code = CodeNumeric
		d.Span = span.New(inner.Pos, advanceColumns(inner.Pos, len(inner.Found)-2))
	case combinator.Construct:
		d.Code = CodeConstruct
	default:
		d.Code = CodeExpected
	}

	if commits := pe.Commits(); len(commits) > 0 {
		opener := commits[len(commits)-1]
		if d.Code == CodeExpected {
			d.Code = CodeUnclosed
		}
		d.Hint = fmt.Sprintf("in the construct started by '%s' at %s", opener.Lexeme, opener.Span.Start)
	}
	return d
}

// advanceColumns moves p forward n single-byte columns on the same line.
func advanceColumns(p span.Position, n int) span.Position {
	if n <= 0 {
		return p
	}
	p.Offset += n
	p.Column += n
	return p
}
