package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crowdscore/crowdscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("Then Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(ctx, "hello", logger.String("k", "v"), logger.Int("n", 1))
				l.Warn(ctx, "warn", logger.Err(errors.New("boom")))
				l.Debug(ctx, "debug", logger.Float64("f", 1.5))
				l.Error(ctx, "err", logger.Any("x", []int{1, 2}))
			}, ShouldNotPanic)
		})

		Convey("Then named loggers can be derived", func() {
			l := logger.Named("api")
			So(l, ShouldNotBeNil)
			So(func() { l.Info(ctx, "scoped") }, ShouldNotPanic)
		})

		Convey("Then levels parse case-insensitively", func() {
			So(logger.SetLevelString("DEBUG"), ShouldBeNil)
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("nope"), ShouldNotBeNil)
		})

		Convey("Then Sync never fails", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
