package scribd

import (
	"errors"
	"fmt"
)

// Fetcher errors.
var (
	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidBaseURL is returned when the base URL cannot be parsed or is not absolute.
	ErrInvalidBaseURL = errors.New("invalid base url")

	// ErrBodyTooLarge is returned when a response body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrMissingDownloadURL is returned when a download receipt carries no URL.
	ErrMissingDownloadURL = errors.New("receipt has no download url")

	// ErrNotFound is the reason carried by receipts and downloads that hit a 404.
	ErrNotFound = errors.New("not found")
)

// snippetLimit bounds how much of a raw response is kept inside an error.
const snippetLimit = 256

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// Code is the HTTP status code.
	Code int

	// Body is the start of the response body, for context.
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
	}
	return fmt.Sprintf("unexpected status %d from %s: %q", e.Code, e.URL, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == 404
}

// PayloadError reports a response that could not be parsed.
type PayloadError struct {
	// URL is the requested URL.
	URL string

	// Snippet is the start of the raw response body.
	Snippet string

	// Err is the underlying parse error.
	Err error
}

// Error implements error.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed payload from %s: %v (body starts %q)", e.URL, e.Err, e.Snippet)
}

// Unwrap returns the underlying parse error.
func (e *PayloadError) Unwrap() error {
	return e.Err
}

// snippet returns at most snippetLimit bytes of body as a string.
func snippet(body []byte) string {
	if len(body) > snippetLimit {
		body = body[:snippetLimit]
	}
	return string(body)
}
