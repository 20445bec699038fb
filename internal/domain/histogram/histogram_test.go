package histogram_test

import (
	"context"
	"math"
	"testing"

	histogram "github.com/Zato1one/weatherhist/internal/domain/histogram"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNiceBinnerBin(t *testing.T) {
	Convey("Given a new binner", t, func() {
		binner := histogram.NewNiceBinner()

		Convey("When binning values spread over the unit interval", func() {
			values := []float64{0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the domain should widen to the unit interval", func() {
				So(hist.X0, ShouldEqual, 0)
				So(hist.X1, ShouldEqual, 1)
				So(hist.Min, ShouldEqual, 0.05)
				So(hist.Max, ShouldEqual, 0.95)
			})

			Convey("And it should produce ten bins of one tenth each", func() {
				So(len(hist.Bins), ShouldEqual, 10)
				for i, b := range hist.Bins {
					So(b.X0, ShouldEqual, float64(i)/10)
					So(b.X1, ShouldEqual, float64(i+1)/10)
				}
			})

			Convey("And each bin should hold exactly one value", func() {
				for _, b := range hist.Bins {
					So(b.Count, ShouldEqual, 1)
				}
				So(hist.Total, ShouldEqual, len(values))
			})

			Convey("And the mean should be the arithmetic mean", func() {
				So(hist.Mean, ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When binning integers zero through ninety-six", func() {
			values := make([]float64, 97)
			for i := range values {
				values[i] = float64(i)
			}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then the domain should widen to a full hundred", func() {
				So(err, ShouldBeNil)
				So(hist.X0, ShouldEqual, 0)
				So(hist.X1, ShouldEqual, 100)
			})

			Convey("And it should produce ten bins of width ten", func() {
				So(len(hist.Bins), ShouldEqual, 10)
				for _, b := range hist.Bins {
					So(b.Width(), ShouldEqual, 10)
				}
			})

			Convey("And counts should follow the integer spread", func() {
				for i := 0; i < 9; i++ {
					So(hist.Bins[i].Count, ShouldEqual, 10)
				}
				// 90 through 96 land in the last bin
				So(hist.Bins[9].Count, ShouldEqual, 7)
				So(hist.Total, ShouldEqual, 97)
			})
		})

		Convey("When binning any value set", func() {
			values := []float64{2, 17, 33.5, 41, 58.2, 63, 63, 77.7, 89, 96, 104, 211, 359}
			hist, err := binner.Bin(context.Background(), values)
			So(err, ShouldBeNil)

			Convey("Then bin counts should sum to the total", func() {
				sum := 0
				for _, b := range hist.Bins {
					sum += b.Count
				}
				So(sum, ShouldEqual, hist.Total)
				So(hist.Total, ShouldEqual, len(values))
			})

			Convey("And every bin should have a non-negative width", func() {
				for _, b := range hist.Bins {
					So(b.X1, ShouldBeGreaterThanOrEqualTo, b.X0)
				}
			})

			Convey("And bins should tile the domain without gaps", func() {
				So(hist.Bins[0].X0, ShouldEqual, hist.X0)
				So(hist.Bins[len(hist.Bins)-1].X1, ShouldEqual, hist.X1)
				for i := 0; i < len(hist.Bins)-1; i++ {
					So(hist.Bins[i].X1, ShouldEqual, hist.Bins[i+1].X0)
				}
			})

			Convey("And interior boundaries should lie strictly inside the domain", func() {
				for _, tz := range hist.Thresholds {
					So(tz, ShouldBeGreaterThan, hist.X0)
					So(tz, ShouldBeLessThan, hist.X1)
				}
			})

			Convey("And the domain should cover the raw extent", func() {
				So(hist.X0, ShouldBeLessThanOrEqualTo, hist.Min)
				So(hist.X1, ShouldBeGreaterThanOrEqualTo, hist.Max)
			})
		})

		Convey("When binning wind bearing style values", func() {
			values := []float64{2, 46, 91, 135, 179, 224, 268, 312, 359}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then the domain should widen to four hundred", func() {
				So(err, ShouldBeNil)
				So(hist.X0, ShouldEqual, 0)
				So(hist.X1, ShouldEqual, 400)
			})

			Convey("And bins should be fifty wide", func() {
				So(len(hist.Bins), ShouldEqual, 8)
				for _, b := range hist.Bins {
					So(b.Width(), ShouldEqual, 50)
				}
			})
		})

		Convey("When a value sits exactly on an interior boundary", func() {
			values := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
			hist, err := binner.Bin(context.Background(), values)
			So(err, ShouldBeNil)

			Convey("Then it should land in the bin starting at that boundary", func() {
				// Domain [0, 100], ten bins of width ten. Every value except
				// the last starts its own bin; 100 closes into the last bin.
				So(len(hist.Bins), ShouldEqual, 10)
				for i := 0; i < 9; i++ {
					So(hist.Bins[i].Count, ShouldEqual, 1)
				}
				So(hist.Bins[9].Count, ShouldEqual, 2)
			})
		})

		Convey("When values include NaN and infinities", func() {
			values := []float64{1, 2, math.NaN(), 3, math.Inf(1), 4, math.Inf(-1), 5}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then only finite values should be binned", func() {
				So(err, ShouldBeNil)
				So(hist.Total, ShouldEqual, 5)
				So(hist.Min, ShouldEqual, 1)
				So(hist.Max, ShouldEqual, 5)
			})

			Convey("And the mean should ignore the non-finite values", func() {
				So(hist.Mean, ShouldAlmostEqual, 3.0, 1e-12)
			})
		})

		Convey("When all values are identical", func() {
			values := []float64{7.5, 7.5, 7.5, 7.5}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then a single zero-width bin should hold them all", func() {
				So(err, ShouldBeNil)
				So(len(hist.Bins), ShouldEqual, 1)
				So(hist.Bins[0].X0, ShouldEqual, 7.5)
				So(hist.Bins[0].X1, ShouldEqual, 7.5)
				So(hist.Bins[0].Count, ShouldEqual, 4)
				So(hist.Total, ShouldEqual, 4)
				So(hist.Mean, ShouldEqual, 7.5)
			})
		})

		Convey("When there are no values", func() {
			_, err := binner.Bin(context.Background(), nil)

			Convey("Then it should report missing data", func() {
				So(err, ShouldEqual, histogram.ErrNoData)
			})
		})

		Convey("When every value is NaN", func() {
			_, err := binner.Bin(context.Background(), []float64{math.NaN(), math.NaN()})

			Convey("Then it should report missing data", func() {
				So(err, ShouldEqual, histogram.ErrNoData)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := binner.Bin(ctx, []float64{1, 2, 3})

			Convey("Then it should return the cancellation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "cancelled")
			})
		})
	})
}

func TestNiceBinnerOptions(t *testing.T) {
	Convey("Given binner options", t, func() {
		Convey("When requesting fewer boundaries", func() {
			binner := histogram.NewNiceBinner(histogram.WithThresholdCount(5))
			values := []float64{0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then fewer, wider bins should come out", func() {
				So(err, ShouldBeNil)
				So(len(hist.Bins), ShouldEqual, 5)
				for _, b := range hist.Bins {
					So(b.Width(), ShouldAlmostEqual, 0.2, 1e-12)
				}
			})
		})

		Convey("When options carry invalid values", func() {
			binner := histogram.NewNiceBinner(
				histogram.WithThresholdCount(0),
				histogram.WithNiceCount(-3),
			)
			values := []float64{0.05, 0.5, 0.95}
			hist, err := binner.Bin(context.Background(), values)

			Convey("Then defaults should remain in effect", func() {
				So(err, ShouldBeNil)
				So(hist.X0, ShouldEqual, 0)
				So(hist.X1, ShouldEqual, 1)
				So(len(hist.Bins), ShouldEqual, 10)
			})
		})
	})
}

func TestHistogramMaxCount(t *testing.T) {
	Convey("Given a computed histogram", t, func() {
		binner := histogram.NewNiceBinner()
		values := []float64{1, 1.1, 1.2, 5, 9.9}
		hist, err := binner.Bin(context.Background(), values)
		So(err, ShouldBeNil)

		Convey("When reading the maximum count", func() {
			maxCount := hist.MaxCount()

			Convey("Then it should match the fullest bin", func() {
				best := 0
				for _, b := range hist.Bins {
					if b.Count > best {
						best = b.Count
					}
				}
				So(maxCount, ShouldEqual, best)
				So(maxCount, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When the histogram is empty", func() {
			empty := histogram.Histogram{}

			Convey("Then the maximum count should be zero", func() {
				So(empty.MaxCount(), ShouldEqual, 0)
			})
		})
	})
}
