// Package dataset loads the program's CSV exports into an immutable Dataset.
//
// Coercion policy: dates and amounts are parsed into typed fields; a row whose
// date, watershed, or amount cannot be coerced is dropped and counted, never
// fatal. An empty amount cell means 0 (the exports leave the cell blank when
// nothing was weighed). Missing volunteer or debris values fall into the
// Unknown bucket. A missing or unreadable file is fatal and surfaces ErrLoad.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crystalmn/draindash/internal/domain/dedupe"
	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/crystalmn/draindash/pkg/logger"
	"github.com/crystalmn/draindash/pkg/metrics"
	"github.com/jonboulle/clockwork"
)

// Column names as they appear in the Adopt-a-Drain CSV exports.
const (
	colID        = "ID"
	colCleanDate = "Cleaning Date"
	colAdoptDate = "Adoption Date"
	colVolunteer = "User Display Name"
	colWatershed = "Watershed"
	colLatitude  = "Latitude"
	colLongitude = "Longitude"
	colAmount    = "Collected Amount"
	colDebris    = "Primary Debris"
)

// Rejection reasons used for logging and metrics labels.
const (
	reasonBadRow           = "bad_row"
	reasonBadDate          = "bad_date"
	reasonBadAmount        = "bad_amount"
	reasonMissingWatershed = "missing_watershed"
	reasonDuplicate        = "duplicate"
)

// Table labels for metrics.
const (
	tableCleanings = "cleanings"
	tableAdoptions = "adoptions"
)

// dateLayouts covers the formats seen across export generations.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Loader reads and validates the CSV exports.
type Loader struct {
	cleaningsPath string
	adoptionsPath string
	clock         clockwork.Clock
	log           logger.Logger
}

// New creates a Loader with configuration options.
func New(opts ...Option) *Loader {
	l := &Loader{
		cleaningsPath: "cleanings.csv",
		adoptionsPath: "adoptions.csv",
		clock:         clockwork.NewRealClock(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads both files and returns a fully validated Dataset.
// The cleanings file is required; an empty adoptions path yields a dataset
// without adoption records.
func (l *Loader) Load(ctx context.Context) (*model.Dataset, error) {
	start := l.clock.Now()

	// A fresh deduper per load: exports routinely repeat rows across files
	// and refreshes, and IDs must not leak between snapshots.
	deduper := dedupe.NewInMemoryDeduper()

	cleanings, err := l.loadCleanings(ctx, deduper)
	if err != nil {
		return nil, err
	}

	var adoptions []model.AdoptionRecord
	if l.adoptionsPath != "" {
		adoptions, err = l.loadAdoptions(ctx, deduper)
		if err != nil {
			return nil, err
		}
	}

	ds := &model.Dataset{
		Cleanings:  cleanings,
		Adoptions:  adoptions,
		Years:      distinctYears(cleanings, adoptions),
		Watersheds: distinctWatersheds(cleanings, adoptions),
		LoadedAt:   l.clock.Now(),
	}

	metrics.UpdateDatasetRows(tableCleanings, len(ds.Cleanings))
	metrics.UpdateDatasetRows(tableAdoptions, len(ds.Adoptions))
	metrics.RecordDatasetLoadDuration(float64(l.clock.Since(start).Milliseconds()))

	if l.log != nil {
		l.log.Info(ctx, "dataset loaded",
			logger.Int("cleanings", len(ds.Cleanings)),
			logger.Int("adoptions", len(ds.Adoptions)),
			logger.Int("years", len(ds.Years)),
			logger.Int("watersheds", len(ds.Watersheds)),
		)
	}

	return ds, nil
}

func (l *Loader) loadCleanings(ctx context.Context, deduper dedupe.Deduper) ([]model.CleaningRecord, error) {
	rows, cols, err := readCSV(l.cleaningsPath)
	if err != nil {
		return nil, err
	}
	if err := cols.require(l.cleaningsPath, colCleanDate, colWatershed, colAmount); err != nil {
		return nil, err
	}

	records := make([]model.CleaningRecord, 0, len(rows))
	for i, row := range rows {
		rec, reason := coerceCleaning(cols, row)
		if reason == "" && deduper.SeenAndRecord(ctx, dedupeKey(tableCleanings, rec.ID, i)) {
			reason = reasonDuplicate
		}
		if reason != "" {
			l.reject(ctx, tableCleanings, reason, i)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Loader) loadAdoptions(ctx context.Context, deduper dedupe.Deduper) ([]model.AdoptionRecord, error) {
	rows, cols, err := readCSV(l.adoptionsPath)
	if err != nil {
		return nil, err
	}
	if err := cols.require(l.adoptionsPath, colAdoptDate, colWatershed); err != nil {
		return nil, err
	}

	records := make([]model.AdoptionRecord, 0, len(rows))
	for i, row := range rows {
		rec, reason := coerceAdoption(cols, row)
		if reason == "" && deduper.SeenAndRecord(ctx, dedupeKey(tableAdoptions, rec.ID, i)) {
			reason = reasonDuplicate
		}
		if reason != "" {
			l.reject(ctx, tableAdoptions, reason, i)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Loader) reject(ctx context.Context, table, reason string, rowIndex int) {
	metrics.RecordRowRejected(table, reason)
	if l.log != nil {
		l.log.Debug(ctx, "row rejected",
			logger.String("table", table),
			logger.String("reason", reason),
			logger.Int("row", rowIndex),
		)
	}
}

// columns maps header names to field positions.
type columns map[string]int

func (c columns) require(path string, names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", ErrLoad, path, name)
		}
	}
	return nil
}

// get returns the trimmed cell value, or "" when the column is absent or the
// row is short.
func (c columns) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readCSV reads the whole file, returning data rows and the header mapping.
func readCSV(path string) ([][]string, columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; validated per field

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: reading header: %w", ErrLoad, path, err)
	}
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
		}
		rows = append(rows, row)
	}
	return rows, cols, nil
}

func coerceCleaning(cols columns, row []string) (model.CleaningRecord, string) {
	if len(row) == 0 {
		return model.CleaningRecord{}, reasonBadRow
	}

	date, ok := parseDate(cols.get(row, colCleanDate))
	if !ok {
		return model.CleaningRecord{}, reasonBadDate
	}

	watershed := cols.get(row, colWatershed)
	if watershed == "" {
		return model.CleaningRecord{}, reasonMissingWatershed
	}

	amount, ok := parseAmount(cols.get(row, colAmount))
	if !ok {
		return model.CleaningRecord{}, reasonBadAmount
	}

	rec := model.CleaningRecord{
		ID:        cols.get(row, colID),
		Date:      date,
		Year:      date.Year(),
		Month:     date.Month(),
		Volunteer: orUnknown(cols.get(row, colVolunteer)),
		Watershed: watershed,
		AmountLbs: amount,
		Debris:    orUnknown(cols.get(row, colDebris)),
	}

	lat, latErr := strconv.ParseFloat(cols.get(row, colLatitude), 64)
	lon, lonErr := strconv.ParseFloat(cols.get(row, colLongitude), 64)
	if latErr == nil && lonErr == nil && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
		rec.HasLocation = true
		rec.Lat = lat
		rec.Lon = lon
	}

	return rec, ""
}

func coerceAdoption(cols columns, row []string) (model.AdoptionRecord, string) {
	if len(row) == 0 {
		return model.AdoptionRecord{}, reasonBadRow
	}

	date, ok := parseDate(cols.get(row, colAdoptDate))
	if !ok {
		return model.AdoptionRecord{}, reasonBadDate
	}

	watershed := cols.get(row, colWatershed)
	if watershed == "" {
		return model.AdoptionRecord{}, reasonMissingWatershed
	}

	return model.AdoptionRecord{
		ID:        cols.get(row, colID),
		Date:      date,
		Year:      date.Year(),
		Month:     date.Month(),
		Adopter:   orUnknown(cols.get(row, colVolunteer)),
		Watershed: watershed,
	}, ""
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount coerces the collected amount. Blank means 0; anything else must
// be a non-negative number.
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownLabel
	}
	return s
}

// dedupeKey builds the identity a row is deduplicated on. Rows without an ID
// fall back to their position so they are never treated as duplicates.
func dedupeKey(table, id string, rowIndex int) string {
	if id == "" {
		return fmt.Sprintf("%s:row:%d", table, rowIndex)
	}
	return table + ":" + id
}

func distinctYears(cleanings []model.CleaningRecord, adoptions []model.AdoptionRecord) []int {
	set := make(map[int]struct{})
	for _, c := range cleanings {
		set[c.Year] = struct{}{}
	}
	for _, a := range adoptions {
		set[a.Year] = struct{}{}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	// Newest first, matching the order the selector presents them.
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func distinctWatersheds(cleanings []model.CleaningRecord, adoptions []model.AdoptionRecord) []string {
	set := make(map[string]struct{})
	for _, c := range cleanings {
		set[c.Watershed] = struct{}{}
	}
	for _, a := range adoptions {
		set[a.Watershed] = struct{}{}
	}
	sheds := make([]string, 0, len(set))
	for w := range set {
		sheds = append(sheds, w)
	}
	sort.Strings(sheds)
	return sheds
}
