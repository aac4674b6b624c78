// Package dedupe tracks row IDs already accepted during a load.
package dedupe

// Option applies a configuration option to the inMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize caps the number of IDs tracked. At the cap, new IDs are no
// longer recorded (and so never reported as duplicates).
// maxSize <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
