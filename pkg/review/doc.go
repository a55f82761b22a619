// Package review orchestrates document compliance reviews.
//
// The Engine accepts review requests, queues them by priority, and
// drives each one through document analysis and template validation on
// a bounded worker pool. Results move from an active table to a bounded
// in-memory history when they reach a terminal state; terminal results
// can additionally be archived to a storage backend.
//
// All mutable state (queue, active table, history, statistics) is
// guarded by a single mutex. Reads hand out deep copies so callers can
// inspect results while workers keep running.
package review
