// Package aggregate computes the statistics the dashboard displays.
package aggregate

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithTopVolunteersLimit caps the length of the top-volunteers ranking.
func WithTopVolunteersLimit(limit int) Option {
	return func(a *Aggregator) {
		if limit > 0 {
			a.topVolunteers = limit
		}
	}
}

// WithMaxMapPoints caps the number of points returned in a map view.
// Bounds and center still cover the full located set.
func WithMaxMapPoints(limit int) Option {
	return func(a *Aggregator) {
		if limit > 0 {
			a.maxMapPoints = limit
		}
	}
}
