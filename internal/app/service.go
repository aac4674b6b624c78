// Package service provides the core dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/crystalmn/draindash/internal/adapters/repository"
	"github.com/crystalmn/draindash/internal/domain/aggregate"
	"github.com/crystalmn/draindash/internal/domain/dataset"
	"github.com/crystalmn/draindash/internal/domain/filtering"
	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/crystalmn/draindash/internal/domain/types"
	"github.com/crystalmn/draindash/pkg/logger"
	"github.com/crystalmn/draindash/pkg/metrics"
	"github.com/jonboulle/clockwork"
)

// Default service configuration constants.
const (
	defaultReloadInterval = time.Hour
	defaultTopVolunteers  = 10
	defaultMaxMapPoints   = 1000
)

// Service owns the load -> snapshot -> filter -> aggregate pipeline.
//
// The snapshot is process-wide read-only state; per-request selections and
// summaries are transient and never shared between requests.
type Service struct {
	mu sync.Mutex

	// Core components
	store      *repository.SnapshotStore
	loader     *dataset.Loader
	aggregator *aggregate.Aggregator

	// Configuration
	cleaningsPath  string
	adoptionsPath  string
	topVolunteers  int
	maxMapPoints   int
	reloadInterval time.Duration
	clock          clockwork.Clock

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithCleaningsPath sets the cleanings CSV path.
func WithCleaningsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.cleaningsPath = path
		}
	}
}

// WithAdoptionsPath sets the adoptions CSV path. Empty disables adoptions.
func WithAdoptionsPath(path string) Option {
	return func(s *Service) {
		s.adoptionsPath = path
	}
}

// WithTopVolunteersLimit caps the top-volunteers ranking.
func WithTopVolunteersLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.topVolunteers = limit
		}
	}
}

// WithMaxMapPoints caps the number of points per map view.
func WithMaxMapPoints(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxMapPoints = limit
		}
	}
}

// WithReloadInterval sets how often the CSVs are re-read. Zero disables
// background reloading; the startup load still happens.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.reloadInterval = interval
		}
	}
}

// WithClock sets the clock driving reloads and timings. Tests inject a fake.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cleaningsPath:  "cleanings.csv",
		adoptionsPath:  "adoptions.csv",
		topVolunteers:  defaultTopVolunteers,
		maxMapPoints:   defaultMaxMapPoints,
		reloadInterval: defaultReloadInterval,
		clock:          clockwork.NewRealClock(),
		stopCh:         make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and begins serving it. The initial load is fatal
// on failure; later reloads are not.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	s.store = repository.NewSnapshotStore(ctx)
	s.loader = dataset.New(
		dataset.WithCleaningsPath(s.cleaningsPath),
		dataset.WithAdoptionsPath(s.adoptionsPath),
		dataset.WithClock(s.clock),
		dataset.WithLogger(s.logger),
	)
	s.aggregator = aggregate.New(
		aggregate.WithTopVolunteersLimit(s.topVolunteers),
		aggregate.WithMaxMapPoints(s.maxMapPoints),
	)

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	s.store.Swap(ctx, ds)
	metrics.RecordDatasetReload()

	if s.reloadInterval > 0 {
		go s.reloadLoop(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("cleanings", len(ds.Cleanings)),
		logger.Int("adoptions", len(ds.Adoptions)),
		logger.String("reloadInterval", s.reloadInterval.String()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// reloadLoop re-reads the CSVs on the configured interval. A failed reload
// keeps the previous snapshot in service.
func (s *Service) reloadLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.Chan():
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn(ctx, "dataset reload failed; keeping previous snapshot", logger.Error(err))
			}
		}
	}
}

// Reload re-reads the CSVs and swaps the snapshot on success.
func (s *Service) Reload(ctx context.Context) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordDatasetReloadError()
		return err
	}
	s.store.Swap(ctx, ds)
	metrics.RecordDatasetReload()
	s.logger.Info(ctx, "dataset reloaded",
		logger.Int("cleanings", len(ds.Cleanings)),
		logger.Int("adoptions", len(ds.Adoptions)),
	)
	return nil
}

// snapshot returns the current dataset, or ErrNotLoaded before Start.
func (s *Service) snapshot(ctx context.Context) (*model.Dataset, error) {
	if s.store == nil {
		return nil, repository.ErrNotLoaded
	}
	return s.store.Snapshot(ctx)
}

// Summary runs the filter -> aggregate pipeline for one selection.
func (s *Service) Summary(ctx context.Context, sel types.FilterSelection) (types.Summary, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return types.Summary{}, err
	}

	start := s.clock.Now()
	cleanings := filtering.Cleanings(ds.Cleanings, sel)
	adoptions := filtering.Adoptions(ds.Adoptions, sel)
	summary := s.aggregator.Summarize(ctx, cleanings, adoptions)

	metrics.RecordAggregation(float64(s.clock.Since(start).Milliseconds()))
	if summary.TotalCleanings == 0 {
		metrics.RecordEmptyResult()
	}

	return summary, nil
}

// Locations returns the map view for one selection.
func (s *Service) Locations(ctx context.Context, sel types.FilterSelection) (types.MapView, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return types.MapView{}, err
	}
	return s.aggregator.MapView(ctx, filtering.Cleanings(ds.Cleanings, sel)), nil
}

// FilterOptions returns the values offered by the two selector controls.
// Options always come from the full dataset, not the filtered view.
func (s *Service) FilterOptions(ctx context.Context) (types.FilterOptions, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return types.FilterOptions{}, err
	}
	return types.FilterOptions{Years: ds.Years, Watersheds: ds.Watersheds}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":               s.started,
		"reloadIntervalSeconds": int(s.reloadInterval / time.Second),
		"topVolunteersLimit":    s.topVolunteers,
		"maxMapPoints":          s.maxMapPoints,
	}

	if s.store != nil {
		if ds, err := s.store.Snapshot(ctx); err == nil {
			stats["cleanings"] = len(ds.Cleanings)
			stats["adoptions"] = len(ds.Adoptions)
			stats["years"] = len(ds.Years)
			stats["watersheds"] = len(ds.Watersheds)
			stats["loadedAt"] = ds.LoadedAt.Format(time.RFC3339)
			stats["reloads"] = s.store.Swaps()
		}
	}

	return stats
}
