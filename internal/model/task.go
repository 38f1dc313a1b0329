package model

// TaskKind names the remote resource a FetchTask retrieves.
type TaskKind string

const (
	// TaskSearchPage fetches one page of document search results.
	TaskSearchPage TaskKind = "search-page"

	// TaskUserProfile fetches one user profile page.
	TaskUserProfile TaskKind = "user-profile"
)

// FetchTask is one unit of remote retrieval tied to a single 1-based index
// (a page number or a user id). One task is exactly one remote call.
type FetchTask struct {
	Kind  TaskKind
	Index int
}
