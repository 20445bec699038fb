package weather_test

import (
	"math"
	"testing"

	weather "github.com/Zato1one/weatherhist/internal/domain/weather"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the metric catalog", t, func() {
		Convey("When listing all metrics", func() {
			metrics := weather.Metrics()

			Convey("Then it should contain the eight charted metrics", func() {
				So(len(metrics), ShouldEqual, 8)
			})

			Convey("And they should be in gallery order", func() {
				keys := make([]string, 0, len(metrics))
				for _, m := range metrics {
					keys = append(keys, m.Key)
				}
				So(keys, ShouldResemble, []string{
					"windSpeed",
					"moonPhase",
					"dewPoint",
					"humidity",
					"uvIndex",
					"windBearing",
					"temperatureMin",
					"temperatureMax",
				})
			})

			Convey("And every metric should carry a derived title", func() {
				for _, m := range metrics {
					So(m.Title, ShouldEqual, weather.Title(m.Key))
					So(m.Title, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When looking up a metric by key", func() {
			Convey("Then known keys should resolve", func() {
				m, ok := weather.ByKey("humidity")
				So(ok, ShouldBeTrue)
				So(m.Key, ShouldEqual, "humidity")
				So(m.Title, ShouldEqual, "Humidity")
			})

			Convey("And compound keys should keep their inner casing", func() {
				m, ok := weather.ByKey("temperatureMax")
				So(ok, ShouldBeTrue)
				So(m.Title, ShouldEqual, "TemperatureMax")
			})

			Convey("And unknown keys should not resolve", func() {
				_, ok := weather.ByKey("precipIntensity")
				So(ok, ShouldBeFalse)

				_, ok = weather.ByKey("")
				So(ok, ShouldBeFalse)

				_, ok = weather.ByKey("Humidity")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestTitle(t *testing.T) {
	Convey("Given metric key titles", t, func() {
		Convey("When deriving titles from keys", func() {
			cases := map[string]string{
				"humidity":       "Humidity",
				"dewPoint":       "DewPoint",
				"windSpeed":      "WindSpeed",
				"uvIndex":        "UvIndex",
				"windBearing":    "WindBearing",
				"moonPhase":      "MoonPhase",
				"temperatureMin": "TemperatureMin",
				"temperatureMax": "TemperatureMax",
			}

			Convey("Then only the first rune should be upper-cased", func() {
				for key, want := range cases {
					So(weather.Title(key), ShouldEqual, want)
				}
			})
		})

		Convey("When deriving a title from an empty key", func() {
			Convey("Then it should stay empty", func() {
				So(weather.Title(""), ShouldEqual, "")
			})
		})

		Convey("When the key is already capitalized", func() {
			Convey("Then it should be unchanged", func() {
				So(weather.Title("Humidity"), ShouldEqual, "Humidity")
			})
		})
	})
}

func TestMetricValue(t *testing.T) {
	Convey("Given a record with distinct values per column", t, func() {
		record := weather.Record{
			WindSpeed:      1,
			MoonPhase:      2,
			DewPoint:       3,
			Humidity:       4,
			UVIndex:        5,
			WindBearing:    6,
			TemperatureMin: 7,
			TemperatureMax: 8,
		}

		Convey("When extracting each charted metric", func() {
			want := map[string]float64{
				"windSpeed":      1,
				"moonPhase":      2,
				"dewPoint":       3,
				"humidity":       4,
				"uvIndex":        5,
				"windBearing":    6,
				"temperatureMin": 7,
				"temperatureMax": 8,
			}

			Convey("Then each metric should read its own column", func() {
				for _, m := range weather.Metrics() {
					So(m.Value(record), ShouldEqual, want[m.Key])
				}
			})
		})

		Convey("When extracting an unknown metric", func() {
			m := weather.Metric{Key: "pressureDelta"}

			Convey("Then the value should be NaN", func() {
				So(math.IsNaN(m.Value(record)), ShouldBeTrue)
			})
		})
	})
}

func TestValues(t *testing.T) {
	Convey("Given a slice of records", t, func() {
		records := []weather.Record{
			{Humidity: 0.1, WindSpeed: 5},
			{Humidity: 0.2, WindSpeed: 6},
			{Humidity: 0.3, WindSpeed: 7},
		}

		Convey("When extracting the humidity column", func() {
			m, ok := weather.ByKey("humidity")
			So(ok, ShouldBeTrue)

			vals := weather.Values(records, m)

			Convey("Then the column values should be in record order", func() {
				So(vals, ShouldResemble, []float64{0.1, 0.2, 0.3})
			})
		})

		Convey("When extracting from an empty slice", func() {
			m, ok := weather.ByKey("windSpeed")
			So(ok, ShouldBeTrue)

			vals := weather.Values(nil, m)

			Convey("Then the result should be empty", func() {
				So(len(vals), ShouldEqual, 0)
			})
		})
	})
}
