package scribd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Receipt is the download metadata for one document.
type Receipt struct {
	DocumentID  string
	DownloadURL string
	Author      string
	AccessKey   string
}

type receiptResponse struct {
	Document struct {
		DownloadURL string `json:"download_url"`
		AccessKey   string `json:"access_key"`
		Author      struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"document"`
}

// ReceiptURL returns the download-receipt endpoint for a document id.
func (c *Client) ReceiptURL(documentID string) string {
	return c.endpoint("doc-page", "download-receipt-modal-props", documentID).String()
}

// Receipt fetches the download receipt of a document.
func (c *Client) Receipt(ctx context.Context, documentID string) (Receipt, error) {
	resp, err := c.get(ctx, c.ReceiptURL(documentID), "application/json")
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to retrieve document information: %w", err)
	}
	if !resp.ok() {
		return Receipt{}, fmt.Errorf("failed to retrieve document information: %w", resp.statusError())
	}

	var payload receiptResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return Receipt{}, &PayloadError{URL: resp.url, Snippet: snippet(resp.body), Err: err}
	}
	if payload.Document.DownloadURL == "" {
		return Receipt{}, &PayloadError{URL: resp.url, Snippet: snippet(resp.body), Err: ErrMissingDownloadURL}
	}

	return Receipt{
		DocumentID:  documentID,
		DownloadURL: payload.Document.DownloadURL,
		Author:      payload.Document.Author.Name,
		AccessKey:   payload.Document.AccessKey,
	}, nil
}

// TextURL returns the signed plain-text download URL of a receipt.
// Existing query parameters on the download URL are kept.
func (r Receipt) TextURL() (string, error) {
	u, err := url.Parse(r.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("invalid download url: %w", err)
	}
	q := u.Query()
	q.Set("secret_password", r.AccessKey)
	q.Set("extension", "txt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DownloadText fetches and decodes the text content of a document.
func (c *Client) DownloadText(ctx context.Context, r Receipt) (model.DocumentText, error) {
	textURL, err := r.TextURL()
	if err != nil {
		return model.DocumentText{}, err
	}

	resp, err := c.get(ctx, textURL, "text/plain")
	if err != nil {
		return model.DocumentText{}, fmt.Errorf("failed to download text file: %w", err)
	}
	if !resp.ok() {
		return model.DocumentText{}, fmt.Errorf("failed to download text file: %w", resp.statusError())
	}

	text, lossy := DecodeText(resp.body)
	return model.NewDocumentText(r.DocumentID, r.Author, text, lossy), nil
}
