package clog

import "fmt"

// Error codes in CATEGORY.SPECIFIC form.
const (
	CodeInvalidRange       = "HANDLER.INVALID_RANGE"
	CodeSinkOpen           = "HANDLER.SINK_OPEN_FAILED"
	CodeConstructionFailed = "HANDLER.CONSTRUCTION_FAILED"
	CodeRollover           = "HANDLER.ROLLOVER_FAILED"
	CodeHandlerClosed      = "HANDLER.CLOSED"
	CodeInvalidConfig      = "CONFIG.INVALID"
)

// Sentinel errors for use with errors.Is. Matching compares codes only, so
// an *Error carrying a message and cause still matches its sentinel.
var (
	ErrInvalidRange       = &Error{Code: CodeInvalidRange, Message: "invalid severity range"}
	ErrSinkOpen           = &Error{Code: CodeSinkOpen, Message: "sink could not be opened"}
	ErrConstructionFailed = &Error{Code: CodeConstructionFailed, Message: "handler construction failed"}
	ErrRollover           = &Error{Code: CodeRollover, Message: "rollover failed"}
	ErrHandlerClosed      = &Error{Code: CodeHandlerClosed, Message: "handler is closed"}
	ErrInvalidConfig      = &Error{Code: CodeInvalidConfig, Message: "invalid configuration"}
)

// Error is the structured error returned by the package.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func newError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
