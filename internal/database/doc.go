// Package database provides SQLite-based storage for harvested records.
//
// The Store holds two tables:
//   - users: enumerated profiles that have an avatar
//   - documents: search hits, keyed by their derived document id
//
// Both are created idempotently on Open. The pure-Go modernc.org/sqlite
// driver is used, so the binary builds without cgo.
//
// A Store opened for writing is meant to be owned by a single sink consumer;
// the connection pool is capped at one connection.
package database
