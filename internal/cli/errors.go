package cli

import "fmt"

// ExitCode is the process exit status for a failed command.
type ExitCode int

const (
	ExitGeneralError ExitCode = 1
	ExitInvalidInput ExitCode = 2 // unreadable cargo list, bad container or settings
	ExitPartialPack  ExitCode = 3 // --strict and at least one unit left unfitted
)

// CLIError carries the exit code a command failure maps to.
type CLIError struct {
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
