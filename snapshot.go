package cardpoint

import (
	"context"
	"time"
)

// Snapshot is one stored copy of a source's page.
type Snapshot struct {
	ID          string
	Label       string
	Content     string
	ContentHash string
	FetchedAt   time.Time
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	Label *string

	Limit  int
	Offset int
}

// SnapshotService keeps the history of fetched pages. The most recent
// snapshot of a label serves as its cache entry.
type SnapshotService interface {
	Cache

	// FindSnapshots returns snapshots newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)
}
