// Package model contains domain models passed between layers.
package model

import "time"

// UnknownLabel is the bucket used when a grouping field (volunteer name,
// debris type) is absent from a row. Silent exclusion would make per-group
// sums disagree with the totals.
const UnknownLabel = "Unknown"

// CleaningRecord is one validated cleaning event. Date, Watershed and
// AmountLbs are guaranteed well-typed; rows where they are not never make it
// past the loader.
type CleaningRecord struct {
	ID        string
	Date      time.Time
	Year      int
	Month     time.Month
	Volunteer string // UnknownLabel when the export omitted the name
	Watershed string
	AmountLbs float64
	Debris    string // primary debris type, UnknownLabel when absent

	// Location is optional; rows without one are aggregated but not mapped.
	HasLocation bool
	Lat         float64
	Lon         float64
}

// AdoptionRecord is one validated drain adoption. An adoption is a standing
// commitment to a drain, distinct from the individual cleanings of it.
type AdoptionRecord struct {
	ID        string
	Date      time.Time
	Year      int
	Month     time.Month
	Adopter   string
	Watershed string
}

// Dataset is the immutable in-memory table pair the whole dashboard reads
// from. It is built once per load and swapped atomically; nothing mutates it
// afterwards.
type Dataset struct {
	Cleanings []CleaningRecord
	Adoptions []AdoptionRecord

	// Years (descending) and Watersheds (ascending) are the distinct values
	// offered by the filter controls, precomputed at load.
	Years      []int
	Watersheds []string

	LoadedAt time.Time
}
