package scribd

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/C0oki3s/scribdt/internal/model"
)

// searchResponse mirrors the nested search payload:
// results.documents.content.documents[].
type searchResponse struct {
	Results struct {
		Documents struct {
			Content struct {
				Documents []searchDocument `json:"documents"`
			} `json:"content"`
		} `json:"documents"`
	} `json:"results"`
}

type searchDocument struct {
	ReaderURL string `json:"reader_url"`
	Title     string `json:"title"`
	Author    struct {
		Name string `json:"name"`
	} `json:"author"`
}

// SearchURL returns the search endpoint URL for query and 1-based page.
func (c *Client) SearchURL(query string, page int) string {
	u := c.endpoint("search", "query")
	u.RawQuery = url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}.Encode()
	return u.String()
}

// SearchPage fetches one page of search results.
//
// Page 1 without any descriptor is model.StatusEmpty: the query has no
// results and the caller should stop. Later empty pages succeed with an empty
// slice. Descriptors without a reader URL are dropped with a warning.
func (c *Client) SearchPage(ctx context.Context, query string, page int) model.Outcome[[]model.DocumentRecord] {
	resp, err := c.get(ctx, c.SearchURL(query, page), "application/json")
	if err != nil {
		return failure[[]model.DocumentRecord](ctx, err)
	}
	if !resp.ok() {
		return model.Failed[[]model.DocumentRecord](resp.statusError())
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return model.Failed[[]model.DocumentRecord](&PayloadError{
			URL:     resp.url,
			Snippet: snippet(resp.body),
			Err:     err,
		})
	}

	raw := payload.Results.Documents.Content.Documents
	if len(raw) == 0 {
		if page == 1 {
			return model.Empty[[]model.DocumentRecord]()
		}
		return model.Succeeded([]model.DocumentRecord{})
	}

	docs := make([]model.DocumentRecord, 0, len(raw))
	for _, d := range raw {
		rec, ok := model.NewDocumentRecord(d.ReaderURL, d.Author.Name, d.Title)
		if !ok {
			c.logger.Warn("dropping document without reader_url",
				"page", page,
				"title", d.Title,
			)
			continue
		}
		docs = append(docs, rec)
	}
	return model.Succeeded(docs)
}
