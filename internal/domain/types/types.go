// Package types contains common types used across the application
package types

// AllYears and AllWatersheds are the zero values of a FilterSelection,
// meaning "do not restrict on this field".
const (
	AllYears      = 0
	AllWatersheds = ""
)

// FilterSelection captures the two dashboard filter controls. A zero value
// selects everything. Selections are built fresh per request and never stored.
type FilterSelection struct {
	Year      int    `json:"year"`
	Watershed string `json:"watershed"`
}

// MatchesYear reports whether a record year passes the selection.
func (s FilterSelection) MatchesYear(year int) bool {
	return s.Year == AllYears || s.Year == year
}

// MatchesWatershed reports whether a record watershed passes the selection.
func (s FilterSelection) MatchesWatershed(watershed string) bool {
	return s.Watershed == AllWatersheds || s.Watershed == watershed
}

// MonthPoint is one month on the activity time axis. Months with no activity
// inside the covered range are present with zero counts so chart x-axes stay
// contiguous.
type MonthPoint struct {
	Month     string  `json:"month"` // "2023-07"
	Cleanings int     `json:"cleanings"`
	Adoptions int     `json:"adoptions"`
	DebrisLbs float64 `json:"debris_lbs"`
}

// YearPoint is one year on the yearly summary axis.
type YearPoint struct {
	Year      int `json:"year"`
	Cleanings int `json:"cleanings"`
	Adoptions int `json:"adoptions"`
}

// DebrisSlice is one wedge of the debris-type distribution.
type DebrisSlice struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Share float64 `json:"share"` // fraction of total cleanings, 0..1
}

// VolunteerEntry is one row of the top-volunteers table.
type VolunteerEntry struct {
	Rank      int     `json:"rank"`
	Name      string  `json:"name"`
	Cleanings int     `json:"cleanings"`
	DebrisLbs float64 `json:"debris_lbs"`
}

// WatershedEntry is one row of the per-watershed activity table.
type WatershedEntry struct {
	Watershed string  `json:"watershed"`
	Cleanings int     `json:"cleanings"`
	DebrisLbs float64 `json:"debris_lbs"`
}

// Summary bundles every aggregate the dashboard displays for one filter
// selection. It is rebuilt from scratch on every request.
type Summary struct {
	TotalAdoptions int     `json:"total_adoptions"`
	TotalCleanings int     `json:"total_cleanings"`
	TotalDebrisLbs float64 `json:"total_debris_lbs"`
	AvgDebrisLbs   float64 `json:"avg_debris_lbs"` // 0 when there are no cleanings

	Monthly       []MonthPoint     `json:"monthly"`
	Yearly        []YearPoint      `json:"yearly"`
	DebrisTypes   []DebrisSlice    `json:"debris_types"`
	TopVolunteers []VolunteerEntry `json:"top_volunteers"`
	Watersheds    []WatershedEntry `json:"watersheds"`
}

// MapPoint is one cleaning location on the map.
type MapPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Volunteer string  `json:"volunteer"`
	Date      string  `json:"date"` // "2023-07-14"
	DebrisLbs float64 `json:"debris_lbs"`
}

// LatLon is a WGS-84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapView is the geographic slice of a filter selection. Points is capped;
// Total carries the uncapped count.
type MapView struct {
	Points []MapPoint `json:"points"`
	Center LatLon     `json:"center"`
	Min    LatLon     `json:"min"`
	Max    LatLon     `json:"max"`
	Total  int        `json:"total"`
}

// FilterOptions lists the values the dashboard offers in its two selectors.
type FilterOptions struct {
	Years      []int    `json:"years"`      // descending
	Watersheds []string `json:"watersheds"` // ascending
}
