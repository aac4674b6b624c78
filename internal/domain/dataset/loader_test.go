package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	dataset "github.com/crystalmn/draindash/internal/domain/dataset"
	"github.com/crystalmn/draindash/internal/domain/model"
	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const cleaningsCSV = `ID,Cleaning Date,User Display Name,Watershed,Latitude,Longitude,Collected Amount,Primary Debris
c1,2022-03-05,Alice,Bassett Creek,45.032,-93.360,5,Leaves
c2,2022-04-10,Bob,Shingle Creek,45.050,-93.340,3,Trash
c3,2023-07-14,Alice,Bassett Creek,45.033,-93.361,2,Leaves
c4,not-a-date,Carol,Bassett Creek,45.0,-93.3,1,Leaves
c5,2023-08-01,,Shingle Creek,,,,"Sediment"
c6,2023-08-02,Dan,,45.0,-93.3,4,Trash
c7,2023-08-03,Dan,Shingle Creek,45.0,-93.3,oops,Trash
c3,2023-07-14,Alice,Bassett Creek,45.033,-93.361,2,Leaves
`

const adoptionsCSV = `ID,Adoption Date,User Display Name,Watershed
a1,2022-02-01,Alice,Bassett Creek
a2,2023-05-20,Bob,Shingle Creek
a2,2023-05-20,Bob,Shingle Creek
`

func TestLoader(t *testing.T) {
	Convey("Given CSV exports on disk", t, func() {
		dir := t.TempDir()
		cleanings := writeFile(t, dir, "cleanings.csv", cleaningsCSV)
		adoptions := writeFile(t, dir, "adoptions.csv", adoptionsCSV)
		clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		loader := dataset.New(
			dataset.WithCleaningsPath(cleanings),
			dataset.WithAdoptionsPath(adoptions),
			dataset.WithClock(clock),
		)

		Convey("When loading the dataset", func() {
			ds, err := loader.Load(context.Background())

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
				So(ds, ShouldNotBeNil)
			})

			Convey("And invalid and duplicate rows should be dropped", func() {
				// c4 bad date, c6 missing watershed, c7 bad amount, second c3 duplicate
				So(len(ds.Cleanings), ShouldEqual, 4)
				So(len(ds.Adoptions), ShouldEqual, 2)
			})

			Convey("And fields should be coerced into typed values", func() {
				first := ds.Cleanings[0]
				So(first.ID, ShouldEqual, "c1")
				So(first.Year, ShouldEqual, 2022)
				So(first.Month, ShouldEqual, time.March)
				So(first.AmountLbs, ShouldEqual, 5.0)
				So(first.HasLocation, ShouldBeTrue)
				So(first.Lat, ShouldAlmostEqual, 45.032, 0.0001)
			})

			Convey("And blank amounts should coerce to zero", func() {
				var c5 model.CleaningRecord
				for _, c := range ds.Cleanings {
					if c.ID == "c5" {
						c5 = c
					}
				}
				So(c5.AmountLbs, ShouldEqual, 0.0)
				So(c5.HasLocation, ShouldBeFalse)
			})

			Convey("And missing grouping fields should bucket into Unknown", func() {
				var c5 model.CleaningRecord
				for _, c := range ds.Cleanings {
					if c.ID == "c5" {
						c5 = c
					}
				}
				So(c5.Volunteer, ShouldEqual, model.UnknownLabel)
			})

			Convey("And filter option values should be precomputed", func() {
				So(ds.Years, ShouldResemble, []int{2023, 2022})
				So(ds.Watersheds, ShouldResemble, []string{"Bassett Creek", "Shingle Creek"})
			})

			Convey("And the load timestamp should come from the clock", func() {
				So(ds.LoadedAt.Equal(clock.Now()), ShouldBeTrue)
			})
		})

		Convey("When the cleanings file is missing", func() {
			broken := dataset.New(
				dataset.WithCleaningsPath(filepath.Join(dir, "nope.csv")),
				dataset.WithAdoptionsPath(adoptions),
			)
			_, err := broken.Load(context.Background())

			Convey("Then it should fail with ErrLoad", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When a required column is missing", func() {
			headless := writeFile(t, dir, "bad.csv", "ID,User Display Name\nc1,Alice\n")
			broken := dataset.New(
				dataset.WithCleaningsPath(headless),
				dataset.WithAdoptionsPath(""),
			)
			_, err := broken.Load(context.Background())

			Convey("Then it should fail with ErrLoad", func() {
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the adoptions path is empty", func() {
			noAdoptions := dataset.New(
				dataset.WithCleaningsPath(cleanings),
				dataset.WithAdoptionsPath(""),
			)
			ds, err := noAdoptions.Load(context.Background())

			Convey("Then cleanings should load without adoption records", func() {
				So(err, ShouldBeNil)
				So(len(ds.Cleanings), ShouldEqual, 4)
				So(ds.Adoptions, ShouldBeEmpty)
			})
		})
	})
}
