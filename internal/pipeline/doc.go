// Package pipeline drives the two harvesting workflows.
//
// Users enumerates profile ids 1..N through the dispatcher and hands every
// profile that has an avatar to a persistence sink (or prints it when no
// store is configured).
//
// Documents fetches search pages through the dispatcher, streams each
// discovered document into a second bounded group that downloads its text,
// scans it for sensitive entities and reports the findings. A query with no
// results at all stops the run after printing a single message.
//
// Every per-item failure is logged and counted; none of them ends a run.
package pipeline
