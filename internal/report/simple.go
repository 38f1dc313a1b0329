package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/C0oki3s/scribdt/internal/model"
)

// separator closes every finding block in text output.
var separator = strings.Repeat("-", 30)

// SimpleWriter streams findings as human-readable text blocks:
//
//	author: alice
//	DocumentID: 123456
//	Detected entity: EMAIL_ADDRESS
//	Data: alice@example.com
//	------------------------------
type SimpleWriter struct {
	mu     sync.Mutex
	output io.Writer

	// showScore adds the recognizer score to each block.
	showScore bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithScore adds a Score line to each block.
func WithScore(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showScore = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFinding writes one block. The block is assembled first so that
// concurrent callers never interleave lines.
func (w *SimpleWriter) WriteFinding(f model.EntityFinding) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "author: %s\n", f.Author)
	fmt.Fprintf(&sb, "DocumentID: %s\n", f.DocumentID)
	fmt.Fprintf(&sb, "Detected entity: %s\n", f.Kind)
	fmt.Fprintf(&sb, "Data: %s\n", f.Text)
	if w.showScore {
		fmt.Fprintf(&sb, "Score: %.2f\n", f.Score)
	}
	sb.WriteString(separator)
	sb.WriteString("\n")

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.output, sb.String())
	return err
}

// Close implements FindingWriter. Text output is unbuffered.
func (w *SimpleWriter) Close() error {
	return nil
}
