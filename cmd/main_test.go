package main

import (
	"context"
	"os"
	"testing"

	"github.com/crowdscore/crowdscore/internal/adapters/repository"
	"github.com/crowdscore/crowdscore/internal/adapters/token"
	app "github.com/crowdscore/crowdscore/internal/app"
	"github.com/crowdscore/crowdscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainWiring(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("CROWDSCORE_ADDR", ":8080")
			_ = os.Setenv("CROWDSCORE_MAX_PAGE_SIZE", "25")
			defer func() {
				_ = os.Unsetenv("CROWDSCORE_ADDR")
				_ = os.Unsetenv("CROWDSCORE_MAX_PAGE_SIZE")
			}()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then configuration should be loadable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxPageSize, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When wiring the service the way main does", func() {
			tokens, err := token.New("wiring-test-secret")
			convey.So(err, convey.ShouldBeNil)

			svc := app.New(
				app.WithTokenProvider(tokens),
				app.WithStore(repository.NewMemory()),
				app.WithDefaultPageSize(10),
				app.WithMaxPageSize(100),
			)

			convey.Convey("Then it starts and stops cleanly", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
				svc.Stop()
			})
		})

		convey.Convey("When updating system metrics", func() {
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
		})
	})
}
