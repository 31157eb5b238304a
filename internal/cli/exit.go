package cli

import (
	"errors"

	"github.com/aretw0/ensureline/pkg/params"
)

// Exit codes of the ensureline command.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// ExitError carries an explicit process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if errors.Is(err, params.ErrValidation) {
		return ExitValidation
	}
	return ExitFailure
}
