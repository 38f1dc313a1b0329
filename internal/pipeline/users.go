package pipeline

import (
	"context"
	"fmt"

	"github.com/C0oki3s/scribdt/internal/dispatcher"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/sink"
)

// UsersRequest describes one user enumeration.
type UsersRequest struct {
	// End is the last user id probed; ids 1..End are fetched.
	End int

	// Store persists users. When nil, users are passed to Print instead.
	Store sink.Writer[model.UserRecord]

	// Print receives users when Store is nil. It may be called from one
	// goroutine at a time only.
	Print func(model.UserRecord) error
}

// UsersSummary counts what happened to each probed id.
type UsersSummary struct {
	Probed   int
	Found    int
	NoAvatar int
	NotFound int
	Failed   int
	Canceled int

	// Persisted is the sink's final totals; zero without a store.
	Persisted sink.Stats
}

// Users probes user ids 1..req.End and keeps every profile that has an
// avatar. Missing profiles are skipped silently and failed fetches are
// logged once each by the dispatcher.
//
// Records already fetched when ctx is canceled are still handed to the
// store, and the store is always drained before Users returns.
func (d *Driver) Users(ctx context.Context, src ProfileFetcher, req UsersRequest) (UsersSummary, error) {
	var summary UsersSummary
	if req.End < 1 {
		return summary, fmt.Errorf("%w: user_end=%d", ErrInvalidRange, req.End)
	}

	store := startSink(ctx, d, req.Store)

	results := dispatcher.Run(ctx, d.dispatcher, model.TaskUserProfile, req.End,
		func(ctx context.Context, task model.FetchTask) model.Outcome[model.UserRecord] {
			return src.UserProfile(ctx, task.Index)
		})

	for res := range results {
		summary.Probed++

		switch res.Outcome.Status {
		case model.StatusSuccess:
			user := res.Outcome.Value
			if !user.HasAvatar() {
				summary.NoAvatar++
				continue
			}
			summary.Found++
			d.keepUser(ctx, store, req.Print, user)
		case model.StatusNotFound, model.StatusEmpty:
			summary.NotFound++
		case model.StatusFailed:
			summary.Failed++
		case model.StatusCanceled:
			summary.Canceled++
		}
	}

	summary.Persisted = stopSink(store)

	d.logger.Info("user enumeration finished",
		"probed", summary.Probed,
		"found", summary.Found,
		"not_found", summary.NotFound,
		"failed", summary.Failed,
		"canceled", summary.Canceled,
		"written", summary.Persisted.Written,
		"write_failed", summary.Persisted.Failed,
	)
	return summary, nil
}

func (d *Driver) keepUser(ctx context.Context, store *sink.Sink[model.UserRecord], printUser func(model.UserRecord) error, user model.UserRecord) {
	if store != nil {
		// The record is already fetched; keep it even after an interrupt.
		if err := store.Enqueue(context.WithoutCancel(ctx), user); err != nil {
			d.logger.Error("failed to queue user", "user_id", user.UserID, "error", err)
		}
		return
	}
	if printUser != nil {
		if err := printUser(user); err != nil {
			d.logger.Error("failed to print user", "user_id", user.UserID, "error", err)
		}
	}
}
