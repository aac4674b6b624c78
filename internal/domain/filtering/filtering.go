// Package filtering applies the dashboard's two filter controls to record sets.
//
// Both functions are pure: the same inputs always yield the same subset, the
// input slices are never mutated, and an empty result is a valid result.
package filtering

import (
	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/crystalmn/draindash/internal/domain/types"
)

// Cleanings returns the cleanings matching the selection.
func Cleanings(records []model.CleaningRecord, sel types.FilterSelection) []model.CleaningRecord {
	out := make([]model.CleaningRecord, 0, len(records))
	for _, r := range records {
		if sel.MatchesYear(r.Year) && sel.MatchesWatershed(r.Watershed) {
			out = append(out, r)
		}
	}
	return out
}

// Adoptions returns the adoptions matching the selection. The year predicate
// applies to the adoption date.
func Adoptions(records []model.AdoptionRecord, sel types.FilterSelection) []model.AdoptionRecord {
	out := make([]model.AdoptionRecord, 0, len(records))
	for _, r := range records {
		if sel.MatchesYear(r.Year) && sel.MatchesWatershed(r.Watershed) {
			out = append(out, r)
		}
	}
	return out
}
