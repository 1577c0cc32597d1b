package metrics_test

import (
	"testing"

	"github.com/crowdscore/crowdscore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("api"),
		)

		Convey("Then it registers its collectors", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then record helpers do not panic", func() {
			So(func() {
				metrics.RecordHTTPRequest("ratings", "GET", "200")
				metrics.RecordHTTPRequestDuration("ratings", "GET", 1.5)
				metrics.RecordUserRegistered()
				metrics.RecordTokenIssued()
				metrics.RecordAuthFailure("missing_header")
				metrics.RecordRatingWritten()
				metrics.RecordRatingWriteError()
				metrics.RecordPageServed(10)
				metrics.RecordStaleCursor()
				metrics.RecordStoreError("append")
				metrics.UpdateSystemMemoryUsage(1024)
				metrics.UpdateSystemGoroutineCount(8)
				metrics.RecordSystemGCPause(0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the scrape registry is exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
