package pipeline

import "errors"

var (
	// ErrInvalidRange is returned when a workflow is asked for fewer than
	// one page or one user.
	ErrInvalidRange = errors.New("range must be at least 1")

	// ErrNoFindingWriter is returned when Documents is called without a
	// place to report findings.
	ErrNoFindingWriter = errors.New("finding writer is required")

	// ErrNoScanner is returned when Documents is called without a scanner.
	ErrNoScanner = errors.New("entity scanner is required")
)
