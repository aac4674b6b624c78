// Package aggregate computes the statistics the dashboard displays.
//
// Every function is total over empty input: zero rows yield zero totals, a 0
// average, and empty series. Results are built from scratch on every call and
// never cached or mutated in place.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/crystalmn/draindash/internal/domain/types"
	geom "github.com/twpayne/go-geom"
)

// Default aggregation configuration constants.
const (
	defaultTopVolunteers = 10
	defaultMaxMapPoints  = 1000
)

// Aggregator computes summaries and map views over filtered record sets.
type Aggregator struct {
	topVolunteers int
	maxMapPoints  int
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		topVolunteers: defaultTopVolunteers,
		maxMapPoints:  defaultMaxMapPoints,
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Summarize computes the full Summary over the given (already filtered) rows.
func (a *Aggregator) Summarize(_ context.Context, cleanings []model.CleaningRecord, adoptions []model.AdoptionRecord) types.Summary {
	s := types.Summary{
		TotalAdoptions: len(adoptions),
		TotalCleanings: len(cleanings),
	}

	for _, c := range cleanings {
		s.TotalDebrisLbs += c.AmountLbs
	}
	if s.TotalCleanings > 0 {
		s.AvgDebrisLbs = s.TotalDebrisLbs / float64(s.TotalCleanings)
	}

	s.Monthly = monthlySeries(cleanings, adoptions)
	s.Yearly = yearlySeries(cleanings, adoptions)
	s.DebrisTypes = debrisDistribution(cleanings, s.TotalCleanings)
	s.TopVolunteers = topVolunteers(cleanings, a.topVolunteers)
	s.Watersheds = watershedActivity(cleanings)

	return s
}

// MapView computes the geographic view over the given cleanings. Points are
// newest first, capped at the configured limit; bounds and center cover every
// located cleaning regardless of the cap.
func (a *Aggregator) MapView(_ context.Context, cleanings []model.CleaningRecord) types.MapView {
	view := types.MapView{Points: []types.MapPoint{}}

	located := make([]model.CleaningRecord, 0, len(cleanings))
	for _, c := range cleanings {
		if c.HasLocation {
			located = append(located, c)
		}
	}
	view.Total = len(located)
	if len(located) == 0 {
		return view
	}

	sort.Slice(located, func(i, j int) bool {
		if !located[i].Date.Equal(located[j].Date) {
			return located[i].Date.After(located[j].Date)
		}
		return located[i].ID < located[j].ID
	})

	flat := make([]float64, 0, len(located)*2)
	for _, c := range located {
		flat = append(flat, c.Lon, c.Lat)
	}
	bounds := geom.NewMultiPointFlat(geom.XY, flat).Bounds()
	view.Min = types.LatLon{Lat: bounds.Min(1), Lon: bounds.Min(0)}
	view.Max = types.LatLon{Lat: bounds.Max(1), Lon: bounds.Max(0)}
	view.Center = types.LatLon{
		Lat: (bounds.Min(1) + bounds.Max(1)) / 2,
		Lon: (bounds.Min(0) + bounds.Max(0)) / 2,
	}

	if len(located) > a.maxMapPoints {
		located = located[:a.maxMapPoints]
	}
	for _, c := range located {
		view.Points = append(view.Points, types.MapPoint{
			Lat:       c.Lat,
			Lon:       c.Lon,
			Volunteer: c.Volunteer,
			Date:      c.Date.Format("2006-01-02"),
			DebrisLbs: c.AmountLbs,
		})
	}

	return view
}

// monthKey collapses (year, month) into a single orderable integer.
func monthKey(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

func formatMonthKey(key int) string {
	return fmt.Sprintf("%04d-%02d", key/12, key%12+1)
}

// monthlySeries buckets activity by calendar month, zero-filling the months
// between the first and last seen so chart x-axes stay contiguous.
func monthlySeries(cleanings []model.CleaningRecord, adoptions []model.AdoptionRecord) []types.MonthPoint {
	type bucket struct {
		cleanings int
		adoptions int
		debrisLbs float64
	}
	buckets := make(map[int]*bucket)
	at := func(key int) *bucket {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		return b
	}

	for _, c := range cleanings {
		b := at(monthKey(c.Year, c.Month))
		b.cleanings++
		b.debrisLbs += c.AmountLbs
	}
	for _, a := range adoptions {
		at(monthKey(a.Year, a.Month)).adoptions++
	}

	if len(buckets) == 0 {
		return []types.MonthPoint{}
	}

	minKey, maxKey := 0, 0
	first := true
	for key := range buckets {
		if first || key < minKey {
			minKey = key
		}
		if first || key > maxKey {
			maxKey = key
		}
		first = false
	}

	series := make([]types.MonthPoint, 0, maxKey-minKey+1)
	for key := minKey; key <= maxKey; key++ {
		point := types.MonthPoint{Month: formatMonthKey(key)}
		if b, ok := buckets[key]; ok {
			point.Cleanings = b.cleanings
			point.Adoptions = b.adoptions
			point.DebrisLbs = b.debrisLbs
		}
		series = append(series, point)
	}
	return series
}

// yearlySeries buckets activity by year, zero-filling the covered range.
func yearlySeries(cleanings []model.CleaningRecord, adoptions []model.AdoptionRecord) []types.YearPoint {
	type bucket struct {
		cleanings int
		adoptions int
	}
	buckets := make(map[int]*bucket)
	at := func(year int) *bucket {
		b, ok := buckets[year]
		if !ok {
			b = &bucket{}
			buckets[year] = b
		}
		return b
	}

	for _, c := range cleanings {
		at(c.Year).cleanings++
	}
	for _, a := range adoptions {
		at(a.Year).adoptions++
	}

	if len(buckets) == 0 {
		return []types.YearPoint{}
	}

	minYear, maxYear := 0, 0
	first := true
	for year := range buckets {
		if first || year < minYear {
			minYear = year
		}
		if first || year > maxYear {
			maxYear = year
		}
		first = false
	}

	series := make([]types.YearPoint, 0, maxYear-minYear+1)
	for year := minYear; year <= maxYear; year++ {
		point := types.YearPoint{Year: year}
		if b, ok := buckets[year]; ok {
			point.Cleanings = b.cleanings
			point.Adoptions = b.adoptions
		}
		series = append(series, point)
	}
	return series
}

// debrisDistribution counts cleanings per primary debris type and each type's
// share of the total. Types with zero rows are simply absent.
func debrisDistribution(cleanings []model.CleaningRecord, total int) []types.DebrisSlice {
	counts := make(map[string]int)
	for _, c := range cleanings {
		counts[c.Debris]++
	}

	slices := make([]types.DebrisSlice, 0, len(counts))
	for debris, count := range counts {
		slice := types.DebrisSlice{Type: debris, Count: count}
		if total > 0 {
			slice.Share = float64(count) / float64(total)
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Type < slices[j].Type
	})
	return slices
}

// topVolunteers ranks volunteers by cleaning count, ties broken by name so
// the order is deterministic, truncated to limit.
func topVolunteers(cleanings []model.CleaningRecord, limit int) []types.VolunteerEntry {
	type tally struct {
		cleanings int
		debrisLbs float64
	}
	tallies := make(map[string]*tally)
	for _, c := range cleanings {
		t, ok := tallies[c.Volunteer]
		if !ok {
			t = &tally{}
			tallies[c.Volunteer] = t
		}
		t.cleanings++
		t.debrisLbs += c.AmountLbs
	}

	entries := make([]types.VolunteerEntry, 0, len(tallies))
	for name, t := range tallies {
		entries = append(entries, types.VolunteerEntry{
			Name:      name,
			Cleanings: t.cleanings,
			DebrisLbs: t.debrisLbs,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cleanings != entries[j].Cleanings {
			return entries[i].Cleanings > entries[j].Cleanings
		}
		return entries[i].Name < entries[j].Name
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// watershedActivity totals cleanings and debris per watershed, ordered by
// watershed name.
func watershedActivity(cleanings []model.CleaningRecord) []types.WatershedEntry {
	type tally struct {
		cleanings int
		debrisLbs float64
	}
	tallies := make(map[string]*tally)
	for _, c := range cleanings {
		t, ok := tallies[c.Watershed]
		if !ok {
			t = &tally{}
			tallies[c.Watershed] = t
		}
		t.cleanings++
		t.debrisLbs += c.AmountLbs
	}

	entries := make([]types.WatershedEntry, 0, len(tallies))
	for watershed, t := range tallies {
		entries = append(entries, types.WatershedEntry{
			Watershed: watershed,
			Cleanings: t.cleanings,
			DebrisLbs: t.debrisLbs,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Watershed < entries[j].Watershed
	})
	return entries
}
