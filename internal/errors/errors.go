// Package errors provides structured error handling for the devsetup CLI.
// It includes categorized errors with actionable remediation guidance, the
// call stack captured where the error was raised, and the process exit code
// the error maps to.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Prerequisite errors occur when required files or dependencies are missing.
	Prerequisite
	// Runtime errors occur during command execution.
	Runtime
	// Cancelled marks an intentional stop requested by the user. It exits 0.
	Cancelled
)

// Exit codes for the devsetup CLI.
const (
	// ExitSuccess indicates success or a graceful user cancellation.
	ExitSuccess = 0
	// ExitFailure indicates any validation failure, missing command, failed
	// installation or trapped step error.
	ExitFailure = 1
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	case Cancelled:
		return "Cancelled"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Argument, Configuration, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for argument errors).
	Usage string
	// Frames is the call stack where the error was raised, innermost first.
	Frames []Frame
	// Code is the exit status of the failed command behind this error, 0 when
	// there is none.
	Code int
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process status this error maps to: 0 for a
// cancellation, the status of the failed command when one is known anywhere
// in the chain, else 1.
func (e *CLIError) ExitCode() int {
	if e.Category == Cancelled {
		return ExitSuccess
	}
	if e.Code > 0 {
		return e.Code
	}
	var inner *CLIError
	if stderrors.As(e.Err, &inner) && inner.Category != Cancelled {
		return inner.ExitCode()
	}
	return ExitFailure
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
		Frames:      callers(3),
	}
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	err := newError(Argument, message, remediation)
	err.Usage = usage
	return err
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewPrerequisiteError creates a new prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// NewCancelledError creates an error for a user cancellation. It carries exit code 0.
func NewCancelledError(message string) *CLIError {
	return newError(Cancelled, message, nil)
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, err.Error(), remediation)
	e.Err = err
	return e
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Err = err
	return e
}

// IsCLIError checks if an error is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// IsCancelled reports whether err is a user cancellation.
func IsCancelled(err error) bool {
	cliErr := AsCLIError(err)
	return cliErr != nil && cliErr.Category == Cancelled
}

// FramesOf returns the captured stack of err, or a stack captured at the
// caller when err carries none.
func FramesOf(err error) []Frame {
	if cliErr := AsCLIError(err); cliErr != nil && len(cliErr.Frames) > 0 {
		return cliErr.Frames
	}
	if exitErr := AsExitError(err); exitErr != nil && exitErr.Err != nil {
		return FramesOf(exitErr.Err)
	}
	return callers(2)
}
