// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes. They are part of the JSON output and stay stable.
const (
	FileNotFound        = "FILE_NOT_FOUND"
	LineOutOfRange      = "LINE_OUT_OF_RANGE"
	NotATask            = "NOT_A_TASK"
	ConfigNotFound      = "CONFIG_NOT_FOUND"
	ConfigAlreadyExists = "CONFIG_ALREADY_EXISTS"
	InvalidInput        = "INVALID_INPUT"
	InvalidStatus       = "INVALID_STATUS"
	InvalidPriority     = "INVALID_PRIORITY"
	InvalidDate         = "INVALID_DATE"
	InvalidRecurrence   = "INVALID_RECURRENCE"
	InvalidGlobalFilter = "INVALID_GLOBAL_FILTER"
	InvalidLocation     = "INVALID_LOCATION"
	InvalidGroupBy      = "INVALID_GROUP_BY"
	EmptyDescription    = "EMPTY_DESCRIPTION"
	NoChanges           = "NO_CHANGES"
	LineChanged         = "LINE_CHANGED"
	FileBusy            = "FILE_BUSY"
	ConfirmationReq     = "CONFIRMATION_REQUIRED"
	InternalError       = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// Is reports whether target is a *Error with the same code, so callers can
// match on a code with errors.Is(err, clierr.New(code, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
