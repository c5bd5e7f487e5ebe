// Package errs provides coded errors shared by the layout core, the
// catalog and the web handlers.
//
// Handlers translate codes into HTTP statuses, so lower layers only need
// to pick the right code:
//
//	return errs.New(errs.CodeInvalidArgument, "column count must be positive, got %d", n)
//
//	if errs.Is(err, errs.CodeNotFound) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

const (
	// CodeInvalidArgument marks a violated programming contract, such as a
	// non-positive column count.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeInvalidInput marks bad user input: malformed ids, filter
	// expressions that do not compile, unknown sort columns.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeNotFound marks a catalog miss.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInternal marks everything else.
	CodeInternal Code = "INTERNAL"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in the chain of err carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in the chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}
