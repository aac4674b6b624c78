// Package dataset loads the program's CSV exports into an immutable Dataset.
package dataset

import (
	"github.com/crystalmn/draindash/pkg/logger"
	"github.com/jonboulle/clockwork"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithCleaningsPath sets the path of the cleanings CSV export.
func WithCleaningsPath(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.cleaningsPath = path
		}
	}
}

// WithAdoptionsPath sets the path of the adoptions CSV export.
// An empty path disables adoption loading.
func WithAdoptionsPath(path string) Option {
	return func(l *Loader) {
		l.adoptionsPath = path
	}
}

// WithClock sets the clock used for load timestamps and durations.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Loader) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
