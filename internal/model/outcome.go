package model

// Status classifies the result of a single fetch.
type Status int

const (
	// StatusSuccess means Value holds the fetched record.
	StatusSuccess Status = iota

	// StatusNotFound means the resource does not exist (HTTP 404 on a
	// profile). It is an absence, not an error.
	StatusNotFound

	// StatusEmpty means the query has no results at all (page 1 of a search
	// returned nothing). The whole workflow should stop.
	StatusEmpty

	// StatusFailed means the fetch failed; Err holds the reason.
	StatusFailed

	// StatusCanceled means the task was abandoned because its context ended.
	StatusCanceled
)

// String returns a short lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not-found"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of one fetch. Exactly one of the Status cases
// applies; Value is meaningful only for StatusSuccess and Err only for
// StatusFailed and StatusCanceled.
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Succeeded returns a successful outcome carrying v.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Value: v}
}

// NotFound returns an absence outcome.
func NotFound[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusNotFound}
}

// Empty returns the "no results for this query" outcome.
func Empty[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusEmpty}
}

// Failed returns a failure outcome with the given reason.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusFailed, Err: err}
}

// Canceled returns an outcome for a task abandoned by cancellation.
func Canceled[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusCanceled, Err: err}
}
