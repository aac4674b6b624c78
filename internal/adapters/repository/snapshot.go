package repository

import (
	"context"
	"sync/atomic"

	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/crystalmn/draindash/pkg/metrics"
)

// SnapshotStore implements Store with an atomic pointer swap.
type SnapshotStore struct {
	current atomic.Pointer[model.Dataset]
	swaps   atomic.Int64
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore(_ context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Swap replaces the served snapshot. A nil dataset is ignored; clearing the
// store is never valid once data has been served.
func (s *SnapshotStore) Swap(_ context.Context, ds *model.Dataset) {
	if ds == nil {
		return
	}
	s.current.Store(ds)
	s.swaps.Add(1)

	metrics.UpdateDatasetLoadedAt(ds.LoadedAt.Unix())
}

// Snapshot returns the current snapshot, or ErrNotLoaded before the first Swap.
func (s *SnapshotStore) Snapshot(_ context.Context) (*model.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// Loaded reports whether a snapshot has been installed.
func (s *SnapshotStore) Loaded(_ context.Context) bool {
	return s.current.Load() != nil
}

// Swaps returns how many snapshots have been installed over the store's life.
func (s *SnapshotStore) Swaps() int64 {
	return s.swaps.Load()
}
