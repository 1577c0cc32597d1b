package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crowdscore/crowdscore/internal/adapters/http/site"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSPAFallback(t *testing.T) {
	Convey("Given the site routes", t, func() {
		mux := http.NewServeMux()
		site.Register(context.Background(), mux)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When requesting the root", func() {
			w := get("/")

			Convey("Then the entry document is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "crowdscore")
			})
		})

		Convey("When requesting a client-side route", func() {
			w := get("/events/E1/ratings")

			Convey("Then the entry document is served instead of a 404", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "crowdscore")
			})
		})

		Convey("When requesting an existing asset", func() {
			w := get("/index.html")
			So(w.Code, ShouldNotEqual, http.StatusNotFound)
		})

		Convey("When requesting an unknown API path", func() {
			w := get("/api/nope")

			Convey("Then the fallback does not apply", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("POST", "/whatever", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
