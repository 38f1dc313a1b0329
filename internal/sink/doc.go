// Package sink serializes writes to a store through a single consumer.
//
// Producers hand records to Enqueue; one goroutine started by Start pops
// them in FIFO order and writes each one on its own. Close appends exactly
// one Shutdown item behind everything already queued, and Wait returns once
// the consumer has written those records and exited.
//
// Only the consumer goroutine touches the Writer, so stores that do not
// tolerate concurrent writers (a single SQLite connection) are safe.
package sink
