package config_test

import (
	"runtime"
	"testing"

	"github.com/Zato1one/weatherhist/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DatasetPath, convey.ShouldEqual, "data/weather.json")
			convey.So(cfg.BinCount, convey.ShouldEqual, 12)
			convey.So(cfg.ChartWidth, convey.ShouldEqual, 600)
			convey.So(cfg.ChartHeight, convey.ShouldEqual, 360)
			convey.So(cfg.RenderQueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.RenderWorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.ChartCacheSize, convey.ShouldEqual, 64)
			convey.So(cfg.RefreshSchedule, convey.ShouldEqual, "@hourly")
			convey.So(cfg.WarmOnStart, convey.ShouldBeTrue)
		})
	})
}
