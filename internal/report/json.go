package report

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/C0oki3s/scribdt/internal/model"
)

// JSONWriter streams findings as JSON Lines, one object per finding, so the
// output can be piped into line-oriented tools while a run is in progress.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint indents each object. The output is then a stream of JSON
// values rather than strict JSON Lines.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.enc.SetIndent("", "  ")
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)

	w := &JSONWriter{enc: enc}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFinding encodes one finding.
func (w *JSONWriter) WriteFinding(f model.EntityFinding) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(f)
}

// Close implements FindingWriter. JSON output is unbuffered.
func (w *JSONWriter) Close() error {
	return nil
}
