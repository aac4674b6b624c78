package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/crystalmn/draindash/internal/adapters/http/api"
	"github.com/crystalmn/draindash/internal/adapters/repository"
	"github.com/crystalmn/draindash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService implements api.Dependencies and api.StatsProvider.
type fakeService struct {
	loaded   bool
	lastSel  types.FilterSelection
	summary  types.Summary
	mapView  types.MapView
	filterOp types.FilterOptions
}

func (f *fakeService) Summary(_ context.Context, sel types.FilterSelection) (types.Summary, error) {
	if !f.loaded {
		return types.Summary{}, repository.ErrNotLoaded
	}
	f.lastSel = sel
	return f.summary, nil
}

func (f *fakeService) Locations(_ context.Context, sel types.FilterSelection) (types.MapView, error) {
	if !f.loaded {
		return types.MapView{}, repository.ErrNotLoaded
	}
	f.lastSel = sel
	return f.mapView, nil
}

func (f *fakeService) FilterOptions(_ context.Context) (types.FilterOptions, error) {
	if !f.loaded {
		return types.FilterOptions{}, repository.ErrNotLoaded
	}
	return f.filterOp, nil
}

func (f *fakeService) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": f.loaded}
}

func newTestServer(f *fakeService) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(f, f).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestAPI(t *testing.T) {
	Convey("Given an API server over a loaded service", t, func() {
		fake := &fakeService{
			loaded: true,
			summary: types.Summary{
				TotalCleanings: 3,
				TotalDebrisLbs: 10,
				AvgDebrisLbs:   10.0 / 3,
				Monthly:        []types.MonthPoint{},
				Yearly:         []types.YearPoint{},
				DebrisTypes:    []types.DebrisSlice{},
				TopVolunteers:  []types.VolunteerEntry{},
				Watersheds:     []types.WatershedEntry{},
			},
			mapView:  types.MapView{Points: []types.MapPoint{{Lat: 45, Lon: -93}}, Total: 1},
			filterOp: types.FilterOptions{Years: []int{2023, 2022}, Watersheds: []string{"A", "B"}},
		}
		srv := newTestServer(fake)
		defer srv.Close()

		Convey("When requesting the summary without filters", func() {
			resp, err := http.Get(srv.URL + "/api/summary")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return the summary with an all/all selection", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var got types.Summary
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got.TotalCleanings, ShouldEqual, 3)
				So(fake.lastSel, ShouldResemble, types.FilterSelection{})
			})

			Convey("And the response should carry a request ID", func() {
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})

		Convey("When requesting the summary with filters", func() {
			resp, err := http.Get(srv.URL + "/api/summary?year=2022&watershed=Bassett%20Creek")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the selection should be parsed from the query", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(fake.lastSel, ShouldResemble, types.FilterSelection{Year: 2022, Watershed: "Bassett Creek"})
			})
		})

		Convey("When the year parameter is \"all\"", func() {
			resp, err := http.Get(srv.URL + "/api/summary?year=all&watershed=all")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should behave like no filter", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(fake.lastSel, ShouldResemble, types.FilterSelection{})
			})
		})

		Convey("When the year parameter is garbage", func() {
			resp, err := http.Get(srv.URL + "/api/summary?year=banana")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return 400 with a JSON error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When requesting filter options", func() {
			resp, err := http.Get(srv.URL + "/api/filters")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then years and watersheds should be returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var got types.FilterOptions
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got.Years, ShouldResemble, []int{2023, 2022})
				So(got.Watersheds, ShouldResemble, []string{"A", "B"})
			})
		})

		Convey("When requesting locations", func() {
			resp, err := http.Get(srv.URL + "/api/locations?watershed=A")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the map view should be returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var got types.MapView
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got.Total, ShouldEqual, 1)
				So(len(got.Points), ShouldEqual, 1)
			})
		})

		Convey("When requesting stats", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then service stats should be returned as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var got map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got["started"], ShouldEqual, true)
			})
		})

		Convey("When using a non-GET method on an API route", func() {
			resp, err := http.Post(srv.URL+"/api/summary", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When requesting metrics exposition", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should serve the Prometheus registry", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})

	Convey("Given an API server before the dataset is loaded", t, func() {
		srv := newTestServer(&fakeService{loaded: false})
		defer srv.Close()

		Convey("When requesting any data endpoint", func() {
			for _, path := range []string{"/api/summary", "/api/filters", "/api/locations"} {
				resp, err := http.Get(srv.URL + path)
				So(err, ShouldBeNil)

				Convey("Then "+path+" should return 503 not_ready", func() {
					So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
					var body map[string]string
					So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
					So(body["code"], ShouldEqual, "not_ready")
				})
				resp.Body.Close()
			}
		})
	})
}
