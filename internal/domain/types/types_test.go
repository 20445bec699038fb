package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/Zato1one/weatherhist/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricInfo(t *testing.T) {
	Convey("Given a MetricInfo struct", t, func() {
		Convey("When creating a new metric info", func() {
			info := types.MetricInfo{
				Key:       "humidity",
				Title:     "Humidity",
				ChartPath: "/charts/humidity.svg",
			}

			Convey("Then it should have the correct values", func() {
				So(info.Key, ShouldEqual, "humidity")
				So(info.Title, ShouldEqual, "Humidity")
				So(info.ChartPath, ShouldEqual, "/charts/humidity.svg")
			})
		})

		Convey("When creating a metric info with zero values", func() {
			info := types.MetricInfo{}

			Convey("Then it should have default values", func() {
				So(info.Key, ShouldEqual, "")
				So(info.Title, ShouldEqual, "")
				So(info.ChartPath, ShouldEqual, "")
			})
		})

		Convey("When marshaling to JSON", func() {
			info := types.MetricInfo{
				Key:       "windSpeed",
				Title:     "WindSpeed",
				ChartPath: "/charts/windSpeed.svg",
			}

			raw, err := json.Marshal(info)

			Convey("Then it should use snake_case field names", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"key":"windSpeed"`)
				So(string(raw), ShouldContainSubstring, `"title":"WindSpeed"`)
				So(string(raw), ShouldContainSubstring, `"chart_path":"/charts/windSpeed.svg"`)
			})
		})
	})
}

func TestBin(t *testing.T) {
	Convey("Given a Bin struct", t, func() {
		Convey("When creating a new bin", func() {
			bin := types.Bin{X0: 0.2, X1: 0.3, Count: 17}

			Convey("Then it should have the correct values", func() {
				So(bin.X0, ShouldEqual, 0.2)
				So(bin.X1, ShouldEqual, 0.3)
				So(bin.Count, ShouldEqual, 17)
			})
		})

		Convey("When creating a bin with zero values", func() {
			bin := types.Bin{}

			Convey("Then it should have default values", func() {
				So(bin.X0, ShouldEqual, 0.0)
				So(bin.X1, ShouldEqual, 0.0)
				So(bin.Count, ShouldEqual, 0)
			})
		})

		Convey("When creating bins that tile a domain", func() {
			bins := []types.Bin{
				{X0: 0, X1: 10, Count: 3},
				{X0: 10, X1: 20, Count: 8},
				{X0: 20, X1: 30, Count: 5},
				{X0: 30, X1: 40, Count: 0},
				{X0: 40, X1: 50, Count: 1},
			}

			Convey("Then adjacent bins should share boundaries", func() {
				for i := 0; i < len(bins)-1; i++ {
					So(bins[i].X1, ShouldEqual, bins[i+1].X0)
				}
			})

			Convey("And every bin should have non-negative width", func() {
				for _, b := range bins {
					So(b.X1, ShouldBeGreaterThanOrEqualTo, b.X0)
				}
			})

			Convey("And counts should never be negative", func() {
				for _, b := range bins {
					So(b.Count, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})
		})
	})
}

func TestHistogramView(t *testing.T) {
	Convey("Given a HistogramView struct", t, func() {
		Convey("When creating a new view", func() {
			view := types.HistogramView{
				Metric: "humidity",
				Title:  "Humidity",
				X0:     0,
				X1:     1,
				Min:    0.13,
				Max:    0.97,
				Mean:   0.61,
				Total:  365,
				Bins: []types.Bin{
					{X0: 0, X1: 0.1, Count: 0},
					{X0: 0.1, X1: 0.2, Count: 12},
				},
			}

			Convey("Then it should have the correct values", func() {
				So(view.Metric, ShouldEqual, "humidity")
				So(view.Title, ShouldEqual, "Humidity")
				So(view.X0, ShouldEqual, 0)
				So(view.X1, ShouldEqual, 1)
				So(view.Min, ShouldEqual, 0.13)
				So(view.Max, ShouldEqual, 0.97)
				So(view.Mean, ShouldEqual, 0.61)
				So(view.Total, ShouldEqual, 365)
				So(len(view.Bins), ShouldEqual, 2)
			})
		})

		Convey("When summing bin counts", func() {
			view := types.HistogramView{
				Total: 20,
				Bins: []types.Bin{
					{X0: 0, X1: 5, Count: 4},
					{X0: 5, X1: 10, Count: 9},
					{X0: 10, X1: 15, Count: 7},
				},
			}

			Convey("Then they should match the total", func() {
				sum := 0
				for _, b := range view.Bins {
					sum += b.Count
				}
				So(sum, ShouldEqual, view.Total)
			})
		})

		Convey("When round-tripping a view through JSON", func() {
			original := types.HistogramView{
				Metric: "temperatureMax",
				Title:  "TemperatureMax",
				X0:     10,
				X1:     110,
				Min:    12.3,
				Max:    103.4,
				Mean:   58.91,
				Total:  365,
				Bins: []types.Bin{
					{X0: 10, X1: 20, Count: 2},
					{X0: 20, X1: 30, Count: 40},
				},
			}

			raw, err := json.Marshal(original)
			So(err, ShouldBeNil)

			var decoded types.HistogramView
			err = json.Unmarshal(raw, &decoded)

			Convey("Then the view should survive unchanged", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, original)
			})

			Convey("And the JSON should expose the domain bounds", func() {
				So(string(raw), ShouldContainSubstring, `"x0":10`)
				So(string(raw), ShouldContainSubstring, `"x1":110`)
			})
		})

		Convey("When a view has no bins", func() {
			view := types.HistogramView{Metric: "uvIndex"}

			Convey("Then bins should be empty and total zero", func() {
				So(view.Bins, ShouldBeEmpty)
				So(view.Total, ShouldEqual, 0)
			})
		})
	})
}
