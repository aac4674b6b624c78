// Package repository defines the dataset snapshot store interface and errors.
package repository

import (
	"context"

	"github.com/crystalmn/draindash/internal/domain/model"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithInitial installs a dataset at construction time. Mainly for tests.
func WithInitial(ds *model.Dataset) Option {
	return func(s *SnapshotStore) {
		if ds != nil {
			s.Swap(context.Background(), ds)
		}
	}
}
