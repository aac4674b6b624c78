package site_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	site "github.com/crystalmn/draindash/internal/adapters/http/site"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSite(t *testing.T) {
	Convey("Given the embedded dashboard site", t, func() {
		mux := http.NewServeMux()
		site.Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When requesting the root page", func() {
			resp, err := http.Get(srv.URL + "/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the dashboard page should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				body, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(strings.Contains(string(body), "Adopt-a-Drain Dashboard"), ShouldBeTrue)
			})
		})

		Convey("When requesting a missing file", func() {
			resp, err := http.Get(srv.URL + "/missing.js")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic loudly", func() {
				So(func() { site.Register(context.Background(), nil) }, ShouldPanic)
			})
		})
	})
}
