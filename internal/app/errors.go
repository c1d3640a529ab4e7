package app

import "errors"

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called while already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotTerminal indicates stdin or stdout is not a terminal.
	ErrNotTerminal = errors.New("runner must be started from an interactive terminal")
)

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
