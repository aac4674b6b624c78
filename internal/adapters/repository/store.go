// Package repository defines the dataset snapshot store interface and errors.
package repository

import (
	"context"

	"github.com/crystalmn/draindash/internal/domain/model"
)

// Store holds the dataset snapshot the dashboard reads from.
//
// The snapshot is immutable: readers get a pointer to a dataset that will
// never change, and reloads replace the whole pointer. That keeps the read
// path lock-free and makes a half-reloaded view impossible.
type Store interface {
	// Swap replaces the served snapshot.
	Swap(ctx context.Context, ds *model.Dataset)

	// Snapshot returns the current snapshot.
	// Returns ErrNotLoaded before the first Swap.
	Snapshot(ctx context.Context) (*model.Dataset, error)

	// Loaded reports whether a snapshot has been installed.
	Loaded(ctx context.Context) bool
}
