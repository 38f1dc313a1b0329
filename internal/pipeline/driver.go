package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/C0oki3s/scribdt/internal/dispatcher"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/scribd"
	"github.com/C0oki3s/scribdt/internal/sink"
)

// NoDocumentsMessage is printed once when a search query has no results.
const NoDocumentsMessage = "No documents found for the given query."

// ProfileFetcher retrieves one user profile per call.
type ProfileFetcher interface {
	UserProfile(ctx context.Context, userID int) model.Outcome[model.UserRecord]
}

// DocumentFetcher retrieves search pages and document text.
type DocumentFetcher interface {
	SearchPage(ctx context.Context, query string, page int) model.Outcome[[]model.DocumentRecord]
	Receipt(ctx context.Context, documentID string) (scribd.Receipt, error)
	DownloadText(ctx context.Context, r scribd.Receipt) (model.DocumentText, error)
}

// Driver runs workflows. It is safe to reuse across runs.
type Driver struct {
	dispatcher *dispatcher.Dispatcher
	logger     *slog.Logger

	// search fetches result pages. Page failures are logged by Documents
	// once it knows whether the query matched anything.
	search *dispatcher.Dispatcher

	// output receives user-facing messages such as NoDocumentsMessage.
	output io.Writer

	workers   int
	queueSize int
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithWorkers sets the fan-out width of both the fetch dispatcher and the
// per-document group.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithOutput sets where user-facing messages are printed.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.output = w
	}
}

// WithQueueSize sets the capacity of the persistence queue.
func WithQueueSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{
		logger:    slog.Default(),
		output:    os.Stdout,
		workers:   dispatcher.DefaultWorkers(),
		queueSize: sink.DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.dispatcher = dispatcher.New(
		dispatcher.WithWorkers(d.workers),
		dispatcher.WithLogger(d.logger),
	)
	d.search = dispatcher.New(
		dispatcher.WithWorkers(d.workers),
		dispatcher.WithLogger(d.logger),
		dispatcher.WithFailureLogging(false),
	)
	return d
}

// Workers returns the fan-out width.
func (d *Driver) Workers() int {
	return d.dispatcher.Workers()
}

// startSink starts a sink over w, or returns nil when w is nil.
func startSink[T any](ctx context.Context, d *Driver, w sink.Writer[T]) *sink.Sink[T] {
	if w == nil {
		return nil
	}
	s := sink.New(w, sink.WithQueueSize(d.queueSize), sink.WithLogger(d.logger))
	s.Start(ctx)
	return s
}

// stopSink closes s and waits for it to drain.
func stopSink[T any](s *sink.Sink[T]) sink.Stats {
	if s == nil {
		return sink.Stats{}
	}
	s.Close()
	stats, _ := s.Wait() //nolint:errcheck // always started by startSink
	return stats
}
