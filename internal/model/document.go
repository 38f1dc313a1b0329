package model

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// DocumentRecord is one document descriptor returned by a search page.
type DocumentRecord struct {
	// ReaderURL is the public reader URL of the document.
	// It is required; DocumentID is derived from it.
	ReaderURL string `json:"reader_url"`

	// AuthorName is the display name of the uploader.
	AuthorName string `json:"author_name,omitempty"`

	// Title is the document title.
	Title string `json:"title,omitempty"`

	// DocumentID is the numeric id segment of ReaderURL.
	DocumentID string `json:"document_id"`
}

// DocumentIDFromReaderURL extracts the document id from a reader URL.
// Reader URLs look like https://host/document/123456/some-slug, so the id is
// the second-to-last path segment. It returns "" when the URL has fewer than
// two segments.
func DocumentIDFromReaderURL(readerURL string) string {
	parts := strings.Split(readerURL, "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-2])
}

// NewDocumentRecord builds a DocumentRecord and derives its id.
// ok is false when the reader URL is missing or yields no id.
func NewDocumentRecord(readerURL, author, title string) (DocumentRecord, bool) {
	readerURL = strings.TrimSpace(readerURL)
	if readerURL == "" {
		return DocumentRecord{}, false
	}
	id := DocumentIDFromReaderURL(readerURL)
	if id == "" {
		return DocumentRecord{}, false
	}
	return DocumentRecord{
		ReaderURL:  readerURL,
		AuthorName: author,
		Title:      title,
		DocumentID: id,
	}, true
}

// DocumentText is the decoded text content of one downloaded document.
type DocumentText struct {
	DocumentID string `json:"document_id"`
	Author     string `json:"author"`
	Text       string `json:"-"`

	// Lossy is true when the payload was not valid UTF-8 and invalid bytes
	// were replaced.
	Lossy bool `json:"lossy"`

	// Digest is the hex SHA3-256 of Text.
	Digest string `json:"digest"`
}

// NewDocumentText wraps decoded text and computes its digest.
func NewDocumentText(documentID, author, text string, lossy bool) DocumentText {
	sum := sha3.Sum256([]byte(text))
	return DocumentText{
		DocumentID: documentID,
		Author:     author,
		Text:       text,
		Lossy:      lossy,
		Digest:     hex.EncodeToString(sum[:]),
	}
}

// StoredDocument is a persisted document with the row id the store assigned.
type StoredDocument struct {
	ID int64
	DocumentRecord
}
