package sink

import "errors"

var (
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("sink is closed")

	// ErrNotStarted is returned by Wait when Start was never called.
	ErrNotStarted = errors.New("sink was not started")
)
