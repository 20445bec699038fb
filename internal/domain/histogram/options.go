// Package histogram computes equal-width histograms with round bin
// boundaries from raw metric values.
package histogram

// Option applies a configuration option to the NiceBinner.
type Option func(*NiceBinner)

// WithThresholdCount sets the suggested number of bin boundaries.
// The effective bin count may differ so boundaries land on round values.
// Non-positive counts are ignored.
func WithThresholdCount(count int) Option {
	return func(b *NiceBinner) {
		if count > 0 {
			b.thresholdCount = count
		}
	}
}

// WithNiceCount sets the tick count used to widen the raw extent.
// Non-positive counts are ignored.
func WithNiceCount(count int) Option {
	return func(b *NiceBinner) {
		if count > 0 {
			b.niceCount = count
		}
	}
}
