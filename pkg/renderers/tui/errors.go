package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing validation
	// after the configured number of prompts.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
