package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Output formats accepted by NewFindingWriter.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown report format")

// FindingWriter receives entity findings. WriteFinding may be called from
// several goroutines; Close flushes buffered output and must be called once
// all writers are done.
type FindingWriter interface {
	WriteFinding(f model.EntityFinding) error
	Close() error
}

// NewFindingWriter returns the FindingWriter for format.
func NewFindingWriter(format string, output io.Writer) (FindingWriter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q (use text, json or markdown)", ErrUnknownFormat, format)
	}
}

// KindLabel turns an entity kind such as EMAIL_ADDRESS into "Email Address".
func KindLabel(kind model.EntityKind) string {
	words := strings.ReplaceAll(strings.ToLower(string(kind)), "_", " ")
	label := cases.Title(language.English).String(words)
	// Acronyms read better upper-cased.
	for _, acr := range []string{"Ip ", "Us ", "Ssn", "Url", "Iban "} {
		label = strings.ReplaceAll(label, acr, strings.ToUpper(acr))
	}
	return label
}
