package mock

import (
	"context"

	"github.com/fwojciec/cardpoint"
)

var _ cardpoint.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of cardpoint.SnapshotService.
type SnapshotService struct {
	LoadFn          func(ctx context.Context, label string) (string, error)
	SaveFn          func(ctx context.Context, label, html string) error
	FindSnapshotsFn func(ctx context.Context, filter cardpoint.SnapshotFilter) ([]*cardpoint.Snapshot, error)
}

func (s *SnapshotService) Load(ctx context.Context, label string) (string, error) {
	return s.LoadFn(ctx, label)
}

func (s *SnapshotService) Save(ctx context.Context, label, html string) error {
	return s.SaveFn(ctx, label, html)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter cardpoint.SnapshotFilter) ([]*cardpoint.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}
