package errors

import (
	stderrors "errors"
	"fmt"
)

// ExitError asks the CLI layer to end the run with Code. It is the Go form of
// a safe exit: nothing below the CLI layer terminates the process.
type ExitError struct {
	Code int
	// Err is the error that caused the exit, nil for a plain status.
	Err error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the error that caused the exit.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError for code caused by err.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// AsExitError returns the ExitError in err's chain, or nil.
func AsExitError(err error) *ExitError {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr
	}
	return nil
}

// ExitCode maps err to a process exit status: 0 for nil, the explicit code
// of an ExitError, 0 for cancellations and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if exitErr := AsExitError(err); exitErr != nil {
		return exitErr.Code
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr.ExitCode()
	}
	return ExitFailure
}
