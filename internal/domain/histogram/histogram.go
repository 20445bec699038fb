// Package histogram computes equal-width histograms with round bin
// boundaries from raw metric values.
package histogram

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Default binning configuration constants.
const (
	defaultThresholdCount = 12 // suggested number of bin boundaries
	defaultNiceCount      = 10 // tick count used to widen the domain
)

// Bin is one interval of the histogram. Bins are half-open [X0, X1);
// the last bin also includes its upper bound.
type Bin struct {
	X0    float64 // inclusive lower bound
	X1    float64 // exclusive upper bound, inclusive for the last bin
	Count int     // number of values assigned to the bin
}

// Width returns the bin's extent on the value axis.
func (b Bin) Width() float64 {
	return b.X1 - b.X0
}

// Histogram is the binned summary of one metric column.
type Histogram struct {
	Bins       []Bin     // contiguous bins in ascending order
	Thresholds []float64 // interior bin boundaries
	X0         float64   // widened domain lower bound
	X1         float64   // widened domain upper bound
	Min        float64   // raw data minimum
	Max        float64   // raw data maximum
	Mean       float64   // arithmetic mean of the binned values
	Total      int       // number of values assigned to bins
}

// MaxCount returns the largest bin count, the top of the frequency axis.
func (h Histogram) MaxCount() int {
	maxCount := 0
	for _, b := range h.Bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	return maxCount
}

// Binner computes a histogram from raw metric values.
type Binner interface {
	// Bin computes a histogram, honoring ctx for cancellation.
	Bin(ctx context.Context, values []float64) (Histogram, error)
}

// NiceBinner implements Binner with equal-width bins on a widened domain.
type NiceBinner struct {
	// Suggested number of bin boundaries; the effective bin count may
	// differ so boundaries land on round values.
	thresholdCount int
	// Tick count used to widen the raw extent to round bounds.
	niceCount int
}

// NewNiceBinner creates a new binner with configuration options.
func NewNiceBinner(opts ...Option) *NiceBinner {
	b := &NiceBinner{
		thresholdCount: defaultThresholdCount,
		niceCount:      defaultNiceCount,
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Bin computes a histogram for the given values. NaN and infinite values
// are skipped. The domain is the raw extent widened to round boundaries,
// and every finite value lands in exactly one bin.
func (b *NiceBinner) Bin(ctx context.Context, values []float64) (Histogram, error) {
	if err := ctx.Err(); err != nil {
		return Histogram{}, fmt.Errorf("binning cancelled: %w", err)
	}

	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return Histogram{}, ErrNoData
	}

	rawMin := floats.Min(clean)
	rawMax := floats.Max(clean)
	mean := stat.Mean(clean, nil)

	x0, x1 := NiceDomain(rawMin, rawMax, b.niceCount)
	tz := Ticks(x0, x1, b.thresholdCount)

	// A boundary at the upper bound would open a zero-width last bin.
	if m := len(tz); m > 0 && tz[m-1] >= x1 {
		tz = tz[:m-1]
	}
	// Boundaries at or below the lower bound, or above the upper bound,
	// fall outside the domain.
	lo, hi := 0, len(tz)
	for lo < hi && tz[lo] <= x0 {
		lo++
	}
	for hi > lo && tz[hi-1] > x1 {
		hi--
	}
	tz = tz[lo:hi]

	m := len(tz)
	bins := make([]Bin, m+1)
	for i := range bins {
		if i > 0 {
			bins[i].X0 = tz[i-1]
		} else {
			bins[i].X0 = x0
		}
		if i < m {
			bins[i].X1 = tz[i]
		} else {
			bins[i].X1 = x1
		}
	}

	total := 0
	for _, v := range clean {
		if v < x0 || v > x1 {
			continue
		}
		// Values on an interior boundary belong to the bin starting there.
		idx := sort.Search(m, func(i int) bool { return tz[i] > v })
		bins[idx].Count++
		total++
	}

	return Histogram{
		Bins:       bins,
		Thresholds: tz,
		X0:         x0,
		X1:         x1,
		Min:        rawMin,
		Max:        rawMax,
		Mean:       mean,
		Total:      total,
	}, nil
}
