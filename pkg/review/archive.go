package review

import (
	"context"
	"time"
)

// ArchiveStore persists terminal review results beyond the in-memory
// history. Implementations live in the storage subpackage.
type ArchiveStore interface {
	// Save stores a terminal result snapshot. Saving the same request id
	// again overwrites the previous entry.
	Save(ctx context.Context, result *ReviewResult) error

	// Get retrieves an archived result, failing with *NotFoundError when
	// the id is unknown.
	Get(ctx context.Context, requestID string) (*ReviewResult, error)

	// Purge removes archived results completed before the cutoff and
	// reports how many were dropped.
	Purge(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}
