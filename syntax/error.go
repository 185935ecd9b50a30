package syntax

import "fmt"

// ErrorCode describes why a pattern failed to parse.
//
// Each code is itself an error, so callers can test for a kind of failure
// with errors.Is:
//
//	if errors.Is(err, syntax.ErrNoPrev) { ... }
type ErrorCode string

const (
	// ErrInvalidEscape is an escape of a codepoint outside the reserved set,
	// or a backslash at the end of the pattern.
	ErrInvalidEscape ErrorCode = "invalid escape sequence"

	// ErrInvalidRightParen is a ')' without a matching '('.
	ErrInvalidRightParen ErrorCode = "unexpected right parenthesis"

	// ErrNoPrev is a quantifier or '|' with no preceding expression.
	ErrNoPrev ErrorCode = "no previous expression"

	// ErrNoRightParen is a '(' that is never closed.
	ErrNoRightParen ErrorCode = "missing right parenthesis"

	// ErrEmpty is a pattern that contains no expression.
	ErrEmpty ErrorCode = "empty expression"
)

// Error implements the error interface.
func (c ErrorCode) Error() string {
	return string(c)
}

// String returns the description of the code.
func (c ErrorCode) String() string {
	return string(c)
}

// Error is a parse failure. Pos is the codepoint index in Expr where the
// problem was detected; Char is the offending codepoint for ErrInvalidEscape
// (0 when the pattern ends right after the backslash).
type Error struct {
	Code ErrorCode
	Pos  int
	Char rune
	Expr string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrInvalidEscape:
		if e.Char == 0 {
			return fmt.Sprintf("error parsing regexp %q: %s: missing escaped character at position %d",
				e.Expr, e.Code, e.Pos)
		}
		return fmt.Sprintf("error parsing regexp %q: %s: `\\%c` at position %d",
			e.Expr, e.Code, e.Char, e.Pos)
	case ErrEmpty:
		return fmt.Sprintf("error parsing regexp %q: %s", e.Expr, e.Code)
	default:
		return fmt.Sprintf("error parsing regexp %q: %s at position %d",
			e.Expr, e.Code, e.Pos)
	}
}

// Unwrap returns the error code, so errors.Is matches on the kind.
func (e *Error) Unwrap() error {
	return e.Code
}
