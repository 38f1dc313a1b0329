package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and by the file loaders.
// Callers use errors.Is() to distinguish them; all of them are fatal before
// any network activity starts.
var (
	// ErrCookiesRequired is returned when the documents workflow is started
	// without a cookie file.
	ErrCookiesRequired = errors.New("cookies file is required: use --cookies")

	// ErrFileNotFound is returned when a file named on the command line does
	// not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrConfigNotFound is returned when an explicitly requested configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidQueueSize is returned when the persistence queue size is not positive.
	ErrInvalidQueueSize = errors.New("invalid queue size: must be positive")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 for no rate cap.
	ErrInvalidRate = errors.New("invalid rate: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https URL")

	// ErrInvalidFilters is returned when a filter file is not valid JSON.
	ErrInvalidFilters = errors.New("invalid filters file")
)
