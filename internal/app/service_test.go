package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crystalmn/draindash/internal/adapters/repository"
	app "github.com/crystalmn/draindash/internal/app"
	"github.com/crystalmn/draindash/internal/domain/types"
	"github.com/crystalmn/draindash/pkg/logger"
	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const cleaningsCSV = `ID,Cleaning Date,User Display Name,Watershed,Latitude,Longitude,Collected Amount,Primary Debris
c1,2022-04-02,Abe,Bassett Creek,45.03,-93.36,5,Leaves
c2,2022-04-20,Bea,Bassett Creek,45.04,-93.35,2,Litter
c3,2022-06-11,Abe,Shingle Creek,,,3,Leaves
c4,2023-01-09,Cara,Bassett Creek,45.05,-93.34,4,Ice
`

const adoptionsCSV = `ID,Adoption Date,User Display Name,Watershed
a1,2022-03-15,Abe,Bassett Creek
a2,2023-02-01,Cara,Bassett Creek
`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cleanings := filepath.Join(dir, "cleanings.csv")
	adoptions := filepath.Join(dir, "adoptions.csv")
	if err := os.WriteFile(cleanings, []byte(cleaningsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(adoptions, []byte(adoptionsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return cleanings, adoptions
}

func TestService(t *testing.T) {
	Convey("Given a service over two CSV fixtures", t, func() {
		ctx := context.Background()
		cleanings, adoptions := writeFixtures(t)
		clock := clockwork.NewFakeClockAt(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

		svc := app.New(
			app.WithCleaningsPath(cleanings),
			app.WithAdoptionsPath(adoptions),
			app.WithClock(clock),
			app.WithReloadInterval(0),
			app.WithTopVolunteersLimit(2),
		)

		Convey("When the service has not been started", func() {
			Convey("Then data requests should report not loaded", func() {
				_, err := svc.Summary(ctx, types.FilterSelection{})
				So(err, ShouldEqual, repository.ErrNotLoaded)
			})
		})

		Convey("When the service is started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then the unfiltered summary should cover the whole dataset", func() {
				sum, err := svc.Summary(ctx, types.FilterSelection{})
				So(err, ShouldBeNil)
				So(sum.TotalCleanings, ShouldEqual, 4)
				So(sum.TotalAdoptions, ShouldEqual, 2)
				So(sum.TotalDebrisLbs, ShouldAlmostEqual, 14)
				So(sum.AvgDebrisLbs, ShouldAlmostEqual, 3.5)
				So(len(sum.TopVolunteers), ShouldEqual, 2)
				So(sum.TopVolunteers[0].Name, ShouldEqual, "Abe")
			})

			Convey("Then a year selection should narrow the summary", func() {
				sum, err := svc.Summary(ctx, types.FilterSelection{Year: 2022})
				So(err, ShouldBeNil)
				So(sum.TotalCleanings, ShouldEqual, 3)
				So(sum.TotalAdoptions, ShouldEqual, 1)
				So(sum.TotalDebrisLbs, ShouldAlmostEqual, 10)
			})

			Convey("Then locations should include only positioned cleanings", func() {
				view, err := svc.Locations(ctx, types.FilterSelection{})
				So(err, ShouldBeNil)
				So(view.Total, ShouldEqual, 3)
			})

			Convey("Then filter options should come from the full dataset", func() {
				opts, err := svc.FilterOptions(ctx)
				So(err, ShouldBeNil)
				So(opts.Years, ShouldResemble, []int{2023, 2022})
				So(opts.Watersheds, ShouldResemble, []string{"Bassett Creek", "Shingle Creek"})
			})

			Convey("Then stats should describe the snapshot", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["cleanings"], ShouldEqual, 4)
				So(stats["adoptions"], ShouldEqual, 2)
				So(stats["reloads"], ShouldEqual, int64(1))
			})

			Convey("And the cleanings file grows", func() {
				extra := cleaningsCSV + "c5,2023-05-30,Dee,Shingle Creek,45.06,-93.33,6,Litter\n"
				So(os.WriteFile(cleanings, []byte(extra), 0o600), ShouldBeNil)

				Convey("When the dataset is reloaded", func() {
					So(svc.Reload(ctx), ShouldBeNil)

					Convey("Then the new snapshot should serve requests", func() {
						sum, err := svc.Summary(ctx, types.FilterSelection{})
						So(err, ShouldBeNil)
						So(sum.TotalCleanings, ShouldEqual, 5)
					})
				})
			})

			Convey("And the cleanings file disappears", func() {
				So(os.Remove(cleanings), ShouldBeNil)

				Convey("When a reload fails", func() {
					So(svc.Reload(ctx), ShouldNotBeNil)

					Convey("Then the previous snapshot should stay in service", func() {
						sum, err := svc.Summary(ctx, types.FilterSelection{})
						So(err, ShouldBeNil)
						So(sum.TotalCleanings, ShouldEqual, 4)
					})
				})
			})

			Convey("When the service is stopped", func() {
				svc.Stop()

				Convey("Then stopping again should be safe", func() {
					So(svc.Stop, ShouldNotPanic)
				})
			})
		})

		Convey("When the cleanings file is missing at startup", func() {
			missing := app.New(
				app.WithCleaningsPath(filepath.Join(t.TempDir(), "nope.csv")),
				app.WithAdoptionsPath(""),
				app.WithReloadInterval(0),
			)

			Convey("Then Start should fail", func() {
				So(missing.Start(ctx), ShouldNotBeNil)
			})
		})
	})
}
