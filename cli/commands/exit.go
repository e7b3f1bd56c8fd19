package commands

import (
	"encoding/json"
	"errors"

	"github.com/petal-labs/meili"
	"github.com/petal-labs/meili/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

// exitError wraps an error with a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// apiFailure maps an error from a server call to an exit code.
func apiFailure(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	switch {
	case errors.Is(err, core.ErrTransport):
		return exitWithCode(ExitNetwork, err)
	case errors.Is(err, core.ErrAPI),
		errors.Is(err, core.ErrInvalidResponseBody),
		errors.Is(err, core.ErrDecode),
		errors.Is(err, meili.ErrTaskTimeout):
		return exitWithCode(ExitAPI, err)
	default:
		return exitWithCode(ExitValidation, err)
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
