package metrics_test

import (
	"testing"

	"github.com/crystalmn/draindash/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("testns"),
			metrics.WithSubsystem("testsub"),
		)

		Convey("Then it should be constructed", func() {
			So(m, ShouldNotBeNil)
		})

		Convey("And the registry should gather the registered metrics", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global manager", t, func() {
		Convey("When recording through package-level helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					metrics.UpdateDatasetRows("cleanings", 42)
					metrics.RecordRowRejected("cleanings", "bad_date")
					metrics.RecordDatasetLoadDuration(12.5)
					metrics.RecordDatasetReload()
					metrics.RecordDatasetReloadError()
					metrics.UpdateDatasetLoadedAt(1700000000)
					metrics.RecordAggregation(1.2)
					metrics.RecordEmptyResult()
					metrics.RecordHTTPRequest("summary", "GET", "200")
					metrics.RecordHTTPRequestDuration("summary", "GET", "200", 3.4)
					metrics.RecordHTTPError("summary", "GET", "client_error")
					metrics.UpdateSystemMemoryUsage(1 << 20)
					metrics.UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})
		})

		Convey("When fetching the global registry", func() {
			Convey("Then it should not be nil", func() {
				So(metrics.GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
