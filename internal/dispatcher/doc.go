// Package dispatcher runs fetch tasks over an enumerated index space with
// bounded concurrency.
//
// Run executes tasks 1..n, at most W at a time, and streams one Result per
// task in completion order. A failing task never affects its siblings: errors
// are classified into the task's Outcome, logged, and the run continues.
//
//	d := dispatcher.New(dispatcher.WithWorkers(8))
//	for res := range dispatcher.Run(ctx, d, model.TaskUserProfile, 200, fetch) {
//	    ...
//	}
package dispatcher
