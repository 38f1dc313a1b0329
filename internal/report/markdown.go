package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/C0oki3s/scribdt/internal/model"
)

// MarkdownWriter collects findings and renders one Markdown report on Close:
// a summary table per entity kind, a pie chart of the distribution, and one
// section per document.
type MarkdownWriter struct {
	mu       sync.Mutex
	output   io.Writer
	title    string
	findings []model.EntityFinding
	closed   bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithTitle sets the report heading.
func WithTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		output: output,
		title:  "Entity Findings",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFinding buffers one finding.
func (w *MarkdownWriter) WriteFinding(f model.EntityFinding) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.findings = append(w.findings, f)
	return nil
}

// Close renders the report. Later calls do nothing.
func (w *MarkdownWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	sort.SliceStable(w.findings, func(i, j int) bool {
		a, b := w.findings[i], w.findings[j]
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.Start < b.Start
	})

	md := markdown.NewMarkdown(w.output)
	md.H1(w.title)
	md.PlainText("")

	if len(w.findings) == 0 {
		md.Note("No sensitive entities detected.")
		return md.Build()
	}

	w.writeSummary(md)
	w.writeDocuments(md)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d findings*", len(w.findings))

	return md.Build()
}

// kindCounts returns per-kind totals sorted by count, then kind.
func (w *MarkdownWriter) kindCounts() ([]model.EntityKind, map[model.EntityKind]int) {
	counts := make(map[model.EntityKind]int)
	for _, f := range w.findings {
		counts[f.Kind]++
	}
	kinds := make([]model.EntityKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	return kinds, counts
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown) {
	kinds, counts := w.kindCounts()

	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(kinds)+1)
	for _, k := range kinds {
		rows = append(rows, []string{KindLabel(k), "`" + string(k) + "`", strconv.Itoa(counts[k])})
	}
	rows = append(rows, []string{"**Total**", "", "**" + strconv.Itoa(len(w.findings)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Entity", "Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Entity Kind"),
		piechart.WithShowData(true),
	)
	for _, k := range kinds {
		chart.LabelAndIntValue(KindLabel(k), uint64(counts[k])) //nolint:gosec // counts are positive
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown) {
	md.H2("Documents")
	md.PlainText("")

	for start := 0; start < len(w.findings); {
		doc := w.findings[start].DocumentID
		end := start
		for end < len(w.findings) && w.findings[end].DocumentID == doc {
			end++
		}
		group := w.findings[start:end]

		md.H3(fmt.Sprintf("Document %s", doc))
		md.PlainText("")
		if author := group[0].Author; author != "" {
			md.PlainTextf("Author: %s", author)
			md.PlainText("")
		}

		rows := make([][]string, 0, len(group))
		for _, f := range group {
			rows = append(rows, []string{
				KindLabel(f.Kind),
				"`" + strings.ReplaceAll(f.Text, "|", `\|`) + "`",
				fmt.Sprintf("%d-%d", f.Start, f.End),
				strconv.FormatFloat(f.Score, 'f', 2, 64),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Entity", "Data", "Span", "Score"},
			Rows:   rows,
		})
		md.PlainText("")

		start = end
	}
}
