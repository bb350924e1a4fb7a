package combinator

import "unicode"

// ---- character classification ----

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsIdentStart reports whether r may begin an identifier. Non-ASCII letters
// are accepted.
func IsIdentStart(r rune) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return r >= 0x80 && unicode.IsLetter(r)
}

// IsIdentPart reports whether r may continue an identifier.
func IsIdentPart(r rune) bool {
	return IsIdentStart(r) || IsDigit(r) || (r >= 0x80 && unicode.IsDigit(r))
}

// IsWordRune is IsIdentPart under the name used for keyword boundaries.
func IsWordRune(r rune) bool {
	return IsIdentPart(r)
}

// IsInlineSpace reports whether r is whitespace that does not end a line.
// A carriage return only counts when it is not part of "\r\n"; callers that
// care check for that sequence first.
func IsInlineSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}

// IsSpace reports whether r is any whitespace, newlines included.
func IsSpace(r rune) bool {
	return IsInlineSpace(r) || r == '\n'
}
