package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Messages printed by the lookup command.
const (
	SearchResultsHeader = "Search Results:"
	NoResultsMessage    = "No results found."
)

// table renders rows with columns padded to their display width, so
// usernames in CJK or with emoji still line up.
func table(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, c := range cells {
			if i == len(cells)-1 {
				padded[i] = c
				continue
			}
			padded[i] = runewidth.FillRight(c, widths[i])
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(line(header))
	rule := make([]string, len(header))
	for i := range header {
		rule[i] = strings.Repeat("-", widths[i])
	}
	sb.WriteString(line(rule))
	for _, row := range rows {
		sb.WriteString(line(row))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// UserTable prints stored users, or NoResultsMessage when there are none.
func UserTable(w io.Writer, users []model.StoredUser) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}
	if _, err := fmt.Fprintln(w, SearchResultsHeader); err != nil {
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			strconv.Itoa(u.UserID),
			u.Username,
			u.ImgURL,
		})
	}
	return table(w, []string{"ID", "USER_ID", "USERNAME", "IMG_URL"}, rows)
}

// DocumentTable prints stored documents, or NoResultsMessage when there are none.
func DocumentTable(w io.Writer, docs []model.StoredDocument) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}
	if _, err := fmt.Fprintln(w, SearchResultsHeader); err != nil {
		return err
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.DocumentID,
			d.AuthorName,
			d.Title,
			d.ReaderURL,
		})
	}
	return table(w, []string{"ID", "DOCUMENT_ID", "AUTHOR", "TITLE", "READER_URL"}, rows)
}

// userNameWidth is the display width reserved for usernames in streamed output.
const userNameWidth = 32

// UserPrinter streams enumerated users one line at a time, for runs
// without a database. Safe for concurrent use.
type UserPrinter struct {
	mu     sync.Mutex
	output io.Writer
}

// NewUserPrinter creates a UserPrinter writing to output.
func NewUserPrinter(output io.Writer) *UserPrinter {
	return &UserPrinter{output: output}
}

// Print writes one user line: id, username padded to a fixed display width,
// and the avatar URL or "-" when there is none.
func (p *UserPrinter) Print(u model.UserRecord) error {
	img := u.ImgURL
	if img == "" {
		img = "-"
	}
	name := runewidth.Truncate(u.Username, userNameWidth, "…")
	line := fmt.Sprintf("%-8d %s  %s\n", u.UserID, runewidth.FillRight(name, userNameWidth), img)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.output, line)
	return err
}
