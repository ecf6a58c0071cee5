package hours

import (
	"errors"
	"fmt"
)

// Error is the single failure shape produced by every request builder.
// It carries exactly one taxonomy Code; for CodeNetwork the underlying
// transport error is kept as the cause and exposed via Unwrap.
//
// Builders never panic and never return any other error type for
// expected failure modes, so callers need no recover/try-catch
// discipline: check the error, extract the code, switch on it with a
// default branch.
type Error struct {
	Code  Code
	cause error
}

func newError(code Code) *Error {
	return &Error{Code: code}
}

func newNetworkError(cause error) *Error {
	return &Error{Code: CodeNetwork, cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("hours: %s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("hours: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// CodeOf extracts the taxonomy code from an error returned by a request
// builder. A nil error yields CodeOK; an error that did not originate
// from this package yields CodeUnknown, which callers treat as the
// generic "unknown or network error" branch.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
