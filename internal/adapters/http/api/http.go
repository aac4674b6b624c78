// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/crystalmn/draindash/internal/adapters/repository"
	"github.com/crystalmn/draindash/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Summary runs the filter -> aggregate pipeline for one selection.
	Summary(ctx context.Context, sel types.FilterSelection) (types.Summary, error)

	// Locations returns the map view for one selection.
	Locations(ctx context.Context, sel types.FilterSelection) (types.MapView, error)

	// FilterOptions returns the values offered by the selector controls.
	FilterOptions(ctx context.Context) (types.FilterOptions, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	summaryHandler   *SummaryHandler
	filtersHandler   *FiltersHandler
	locationsHandler *LocationsHandler
	statsHandler     *StatsHandler
	healthHandler    *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		summaryHandler:   NewSummaryHandler(deps),
		filtersHandler:   NewFiltersHandler(deps),
		locationsHandler: NewLocationsHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		healthHandler:    NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/filters", MetricsMiddleware(s.filtersHandler.HandleGetFilters, "filters"))
	mux.HandleFunc("/api/locations", MetricsMiddleware(s.locationsHandler.HandleGetLocations, "locations"))
}

// parseSelection builds a FilterSelection from the year/watershed query
// parameters. Empty or "all" means unrestricted. An unknown watershed is not
// an error; it simply matches nothing.
func parseSelection(r *http.Request) (types.FilterSelection, error) {
	sel := types.FilterSelection{}

	if y := strings.TrimSpace(r.URL.Query().Get("year")); y != "" && !strings.EqualFold(y, "all") {
		year, err := strconv.Atoi(y)
		if err != nil {
			return sel, errors.New("invalid year; must be an integer or \"all\"")
		}
		sel.Year = year
	}

	if w := strings.TrimSpace(r.URL.Query().Get("watershed")); w != "" && !strings.EqualFold(w, "all") {
		sel.Watershed = w
	}

	return sel, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDependencyError translates upstream errors into HTTP responses.
// A missing snapshot is a 503: the server is up but not serving data yet.
func writeDependencyError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrNotLoaded) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}
