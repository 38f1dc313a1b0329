package sink

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultQueueSize is the queue capacity used when none is configured.
const DefaultQueueSize = 1024

// Writer persists a single record.
type Writer[T any] interface {
	Write(ctx context.Context, rec T) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc[T any] func(ctx context.Context, rec T) error

// Write implements Writer.
func (f WriterFunc[T]) Write(ctx context.Context, rec T) error {
	return f(ctx, rec)
}

// Item is a queue entry: either Record or Shutdown.
type Item[T any] interface {
	isItem()
}

// Record carries one value to be written.
type Record[T any] struct {
	Value T
}

// Shutdown tells the consumer that no more records follow.
type Shutdown[T any] struct{}

func (Record[T]) isItem()   {}
func (Shutdown[T]) isItem() {}

// Stats summarizes a finished consumer.
type Stats struct {
	// Written is the number of records stored successfully.
	Written int

	// Failed is the number of records whose write returned an error.
	Failed int
}

// Sink is a bounded FIFO queue drained by one consumer goroutine.
type Sink[T any] struct {
	writer    Writer[T]
	queue     chan Item[T]
	logger    *slog.Logger
	queueSize int
	onDrain   func(Stats)

	// mu orders Enqueue against Close: enqueues hold the read lock while
	// sending, Close takes the write lock before queueing Shutdown.
	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	started   bool
	stats     Stats
}

// Option configures a Sink.
type Option func(*options)

type options struct {
	queueSize int
	logger    *slog.Logger
	onDrain   func(Stats)
}

// WithQueueSize sets the queue capacity. Enqueue blocks while the queue is
// full. Non-positive values keep the default.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDrainHook registers fn to run on the consumer goroutine when it
// takes the Shutdown item, after every earlier record has been written.
func WithDrainHook(fn func(Stats)) Option {
	return func(o *options) {
		o.onDrain = fn
	}
}

// New creates a Sink that writes through w. Call Start before producing.
func New[T any](w Writer[T], opts ...Option) *Sink[T] {
	o := options{
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Sink[T]{
		writer:    w,
		queue:     make(chan Item[T], o.queueSize),
		logger:    o.logger,
		queueSize: o.queueSize,
		onDrain:   o.onDrain,
		done:      make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Calling it again, or after Close,
// has no effect.
//
// Writes use a context detached from ctx's cancellation: once a record is
// queued it is written even if ctx is canceled, so an interrupt never leaves
// the queue half-flushed.
func (s *Sink[T]) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.started = true
		s.mu.Unlock()

		go s.consume(context.WithoutCancel(ctx))
	})
}

// Enqueue hands rec to the consumer. It blocks only while the queue is full
// and returns ErrClosed after Close, or ctx's error if ctx ends first.
func (s *Sink[T]) Enqueue(ctx context.Context, rec T) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	select {
	case s.queue <- Record[T]{Value: rec}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close queues the single Shutdown item. It is safe to call more than once
// and from several goroutines; only the first call has an effect.
func (s *Sink[T]) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		started := s.started
		s.mu.Unlock()

		if !started {
			close(s.done)
			return
		}
		s.queue <- Shutdown[T]{}
	})
}

// Wait blocks until the consumer has exited and returns its totals.
// It returns ErrNotStarted if the sink was closed without being started.
func (s *Sink[T]) Wait() (Stats, error) {
	<-s.done

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Stats{}, ErrNotStarted
	}
	return s.stats, nil
}

// Len reports how many items are queued.
func (s *Sink[T]) Len() int {
	return len(s.queue)
}

// Cap reports the queue capacity.
func (s *Sink[T]) Cap() int {
	return s.queueSize
}

func (s *Sink[T]) consume(ctx context.Context) {
	defer close(s.done)

	var stats Stats
	for item := range s.queue {
		switch it := item.(type) {
		case Shutdown[T]:
			s.mu.Lock()
			s.stats = stats
			s.mu.Unlock()

			s.logger.Debug("sink drained", "written", stats.Written, "failed", stats.Failed)
			if s.onDrain != nil {
				s.onDrain(stats)
			}
			return

		case Record[T]:
			if err := s.writer.Write(ctx, it.Value); err != nil {
				stats.Failed++
				s.logger.Error("failed to persist record", "error", err)
				continue
			}
			stats.Written++
		}
	}
}
