package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the unit binary.
//
// A run that completes reports the failed-assertion count directly as its
// exit status, so 0 means every assertion passed. The reserved codes
// below cover runs that never complete normally.
const (
	ExitSuccess = 0   // every assertion passed
	ExitUsage   = 2   // flag errors, help requested, bad configuration
	ExitFatal   = 255 // a must assertion failed, or harness setup failed
)

// ExitError represents an error with a specific process exit code.
type ExitError struct {
	Code    int    // process exit status
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that carry no
// code — flag parse failures, mostly — count as usage errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
