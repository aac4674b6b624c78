// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/crystalmn/draindash/internal/domain/types"
)

// LocationsDependencies defines the interface for map view operations.
type LocationsDependencies interface {
	Locations(ctx context.Context, sel types.FilterSelection) (types.MapView, error)
}

// LocationsHandler handles map view requests.
type LocationsHandler struct {
	deps LocationsDependencies
}

// NewLocationsHandler creates a new locations handler.
func NewLocationsHandler(deps LocationsDependencies) *LocationsHandler {
	return &LocationsHandler{deps: deps}
}

// HandleGetLocations handles GET /api/locations?year=N&watershed=W requests.
func (h *LocationsHandler) HandleGetLocations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_locations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Locations(r.Context(), sel)
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
