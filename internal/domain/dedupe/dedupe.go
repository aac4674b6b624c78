// Package dedupe tracks row IDs already accepted during a load.
//
// Program exports overlap between downloads, so the same cleaning or adoption
// can appear more than once across files or refreshes. The loader consults a
// Deduper before accepting a row.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen row IDs so duplicates are counted once.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of distinct IDs recorded.
	Size() int
}

// inMemoryDeduper implements Deduper with a plain map. Datasets here are a
// few thousand rows, so no eviction is needed; maxSize is a hard safety cap.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	maxSize int // 0 or negative means unbounded
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen: make(map[string]struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Returns true if id was already seen, false if it was newly recorded.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	// At the cap, stop recording new IDs rather than evicting old ones:
	// evicting would let an earlier duplicate back in.
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		return false
	}

	d.seen[id] = struct{}{}
	return false
}

// Size returns the number of distinct IDs recorded.
func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
