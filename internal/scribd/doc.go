// Package scribd implements the fetchers for the document-sharing site.
//
// Every fetch is exactly one HTTP request. The enumeration fetchers
// (SearchPage, UserProfile) return a model.Outcome so that callers can tell
// an absent resource or an empty query apart from a transport failure
// without inspecting error values. The download stage (Receipt, DownloadText)
// returns plain errors because each document is handled by a single caller.
//
// A Client is built once before a run, with cookies and headers fixed, and
// is safe for concurrent use afterwards.
package scribd
