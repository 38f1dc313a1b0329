package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Dispatcher holds the pool width and logger shared by all runs.
// It carries no per-run state, so one Dispatcher may serve several
// concurrent runs.
type Dispatcher struct {
	// workers is the maximum number of tasks in flight per run.
	workers int

	logger *slog.Logger

	// logFailures controls the warn line written for failed tasks.
	logFailures bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the maximum number of concurrent tasks.
// Non-positive values keep the default.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger used for per-task failure lines.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFailureLogging enables or disables the warn line written for each
// failed task. Callers that disable it report failures themselves.
func WithFailureLogging(enabled bool) Option {
	return func(d *Dispatcher) {
		d.logFailures = enabled
	}
}

// DefaultWorkers is five workers per logical CPU.
func DefaultWorkers() int {
	return 5 * runtime.NumCPU()
}

// New creates a Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		workers:     DefaultWorkers(),
		logger:      slog.Default(),
		logFailures: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Workers returns the configured pool width.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// FetchFunc performs the single remote call of one task.
type FetchFunc[T any] func(ctx context.Context, task model.FetchTask) model.Outcome[T]

// Result pairs a task with its outcome.
type Result[T any] struct {
	Task    model.FetchTask
	Outcome model.Outcome[T]
}

// Run executes tasks 1..n of the given kind and returns a channel that
// yields exactly n results in completion order, then closes.
//
// Once ctx is done, tasks that have not started are reported as canceled
// without calling fetch, and failures of in-flight tasks are reported as
// canceled rather than failed. The caller must drain the channel.
func Run[T any](ctx context.Context, d *Dispatcher, kind model.TaskKind, n int, fetch FetchFunc[T]) <-chan Result[T] {
	out := make(chan Result[T], d.workers)

	go func() {
		defer close(out)

		// Tasks never return errors to the group, so one failure cannot
		// cancel the others; the group is only a bounded spawner.
		var g errgroup.Group
		g.SetLimit(d.workers)

		for i := 1; i <= n; i++ {
			task := model.FetchTask{Kind: kind, Index: i}

			if err := ctx.Err(); err != nil {
				out <- Result[T]{Task: task, Outcome: model.Canceled[T](err)}
				continue
			}

			g.Go(func() error {
				outcome := execute(ctx, task, fetch)
				logOutcome(d.logger, task, outcome, d.logFailures)
				out <- Result[T]{Task: task, Outcome: outcome}
				return nil
			})
		}

		_ = g.Wait() //nolint:errcheck // tasks always return nil
	}()

	return out
}

// execute runs one task, converting panics into failures and failures
// observed after cancellation into cancellations.
func execute[T any](ctx context.Context, task model.FetchTask, fetch FetchFunc[T]) (outcome model.Outcome[T]) {
	if err := ctx.Err(); err != nil {
		return model.Canceled[T](err)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = model.Failed[T](fmt.Errorf("task %s #%d panicked: %v", task.Kind, task.Index, r))
		}
	}()

	outcome = fetch(ctx, task)
	if outcome.Status == model.StatusFailed && ctx.Err() != nil {
		outcome = model.Canceled[T](outcome.Err)
	}
	return outcome
}

// logOutcome writes the per-task log line. Only failures are visible at the
// default level; absences and cancellations are not failures.
func logOutcome[T any](logger *slog.Logger, task model.FetchTask, outcome model.Outcome[T], failures bool) {
	switch outcome.Status {
	case model.StatusFailed:
		if !failures {
			return
		}
		logger.Warn("fetch failed",
			"kind", task.Kind,
			"index", task.Index,
			"error", outcome.Err,
		)
	case model.StatusNotFound:
		logger.Debug("resource not found", "kind", task.Kind, "index", task.Index)
	case model.StatusEmpty:
		logger.Debug("query has no results", "kind", task.Kind, "index", task.Index)
	case model.StatusSuccess:
		logger.Debug("fetch completed", "kind", task.Kind, "index", task.Index)
	case model.StatusCanceled:
	}
}
