package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	dataset "github.com/Zato1one/weatherhist/internal/adapters/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleDataset = `[
	{
		"time": 1514782800,
		"summary": "Clear throughout the day.",
		"icon": "clear-day",
		"moonPhase": 0.48,
		"humidity": 0.66,
		"dewPoint": 11.59,
		"pressure": 1025.2,
		"windSpeed": 8.52,
		"windBearing": 292,
		"uvIndex": 2,
		"temperatureMin": 13.43,
		"temperatureMax": 18.39,
		"date": "2018-01-01"
	},
	{
		"time": 1514869200,
		"summary": "Partly cloudy until evening.",
		"icon": "partly-cloudy-day",
		"moonPhase": 0.51,
		"humidity": 0.6,
		"dewPoint": 10.87,
		"pressure": 1022.6,
		"windSpeed": 5.8,
		"windBearing": 250,
		"uvIndex": 3,
		"temperatureMin": 12.78,
		"temperatureMax": 20.95,
		"date": "2018-01-02"
	}
]`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset fixture: %v", err)
	}
	return path
}

func TestFileLoader(t *testing.T) {
	Convey("Given a file loader", t, func() {
		Convey("When loading a well formed dataset", func() {
			path := writeDataset(t, sampleDataset)
			loader := dataset.NewFileLoader(path)

			records, err := loader.Load(context.Background())

			Convey("Then it should decode all records", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 2)
			})

			Convey("And record fields should map from camelCase JSON", func() {
				So(records[0].Humidity, ShouldEqual, 0.66)
				So(records[0].WindBearing, ShouldEqual, 292)
				So(records[0].Date, ShouldEqual, "2018-01-01")
				So(records[1].TemperatureMax, ShouldEqual, 20.95)
			})

			Convey("And the source should be the file path", func() {
				So(loader.Source(), ShouldEqual, path)
			})
		})

		Convey("When the file does not exist", func() {
			loader := dataset.NewFileLoader(filepath.Join(t.TempDir(), "missing.json"))

			_, err := loader.Load(context.Background())

			Convey("Then it should fail with a read error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "read dataset")
			})
		})

		Convey("When the file holds malformed JSON", func() {
			path := writeDataset(t, `[{"time": not-json`)
			loader := dataset.NewFileLoader(path)

			_, err := loader.Load(context.Background())

			Convey("Then it should fail with a decode error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "decode dataset")
			})
		})

		Convey("When the file holds an empty array", func() {
			path := writeDataset(t, `[]`)
			loader := dataset.NewFileLoader(path)

			_, err := loader.Load(context.Background())

			Convey("Then it should report the empty dataset", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, dataset.ErrEmptyDataset), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			path := writeDataset(t, sampleDataset)
			loader := dataset.NewFileLoader(path)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := loader.Load(ctx)

			Convey("Then it should return the cancellation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "cancelled")
			})
		})
	})
}
