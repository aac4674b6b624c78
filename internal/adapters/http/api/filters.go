// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/crystalmn/draindash/internal/domain/types"
)

// FiltersDependencies defines the interface for filter option lookups.
type FiltersDependencies interface {
	FilterOptions(ctx context.Context) (types.FilterOptions, error)
}

// FiltersHandler handles filter option requests.
type FiltersHandler struct {
	deps FiltersDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FiltersDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleGetFilters handles GET /api/filters requests. The values always come
// from the full dataset so the controls never shrink as filters are applied.
func (h *FiltersHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	options, err := h.deps.FilterOptions(r.Context())
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}
