package scribd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/C0oki3s/scribdt/internal/model"
)

const (
	// NoTitle is the username used when a profile page has no usable title.
	NoTitle = "No Title Found"

	// avatarMarker identifies user avatar images among a page's images.
	avatarMarker = "img/word_user/"
)

// ProfileURL returns the profile page URL for a user id.
func (c *Client) ProfileURL(userID int) string {
	return c.endpoint("user", strconv.Itoa(userID), "A").String()
}

// UserProfile fetches one profile page.
// A 404 is model.StatusNotFound; other non-2xx statuses fail.
func (c *Client) UserProfile(ctx context.Context, userID int) model.Outcome[model.UserRecord] {
	resp, err := c.get(ctx, c.ProfileURL(userID), "text/html")
	if err != nil {
		return failure[model.UserRecord](ctx, err)
	}
	if resp.code == http.StatusNotFound {
		return model.NotFound[model.UserRecord]()
	}
	if !resp.ok() {
		return model.Failed[model.UserRecord](resp.statusError())
	}

	rec, err := ParseProfile(userID, bytes.NewReader(resp.body))
	if err != nil {
		return model.Failed[model.UserRecord](&PayloadError{
			URL:     resp.url,
			Snippet: snippet(resp.body),
			Err:     err,
		})
	}
	return model.Succeeded(rec)
}

// ParseProfile extracts a UserRecord from profile HTML.
//
// The username is the part of <title> before the first '|', trimmed, or
// NoTitle when the title is missing or blank. The avatar is the src of the
// first image whose path contains the avatar marker; records without one
// have an empty ImgURL.
func ParseProfile(userID int, r io.Reader) (model.UserRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return model.UserRecord{}, err
	}

	rec := model.UserRecord{UserID: userID, Username: NoTitle}

	if title := doc.Find("title").First(); title.Length() > 0 {
		name, _, _ := strings.Cut(title.Text(), "|")
		if name = strings.TrimSpace(name); name != "" {
			rec.Username = name
		}
	}

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if strings.Contains(src, avatarMarker) {
			rec.ImgURL = src
			return false
		}
		return true
	})

	return rec, nil
}
