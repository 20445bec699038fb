package histogram

import "math"

// Step rounding thresholds. A raw step is promoted to the next round
// multiplier (1, 2, 5, 10) at the geometric midpoint between candidates.
var (
	e10 = math.Sqrt(50) //nolint:gochecknoglobals // fixed rounding threshold
	e5  = math.Sqrt(10) //nolint:gochecknoglobals // fixed rounding threshold
	e2  = math.Sqrt(2)  //nolint:gochecknoglobals // fixed rounding threshold
)

// TickIncrement returns the rounded tick step for the domain [start, stop]
// split into approximately count intervals. Steps below one are encoded as
// the negated inverse (a return of -10 means a step of 1/10) so decimal
// steps stay exact under division.
func TickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	if power >= 0 {
		return stepFactor(err) * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / stepFactor(err)
}

// stepFactor picks the round multiplier for a normalized step error.
func stepFactor(err float64) float64 {
	switch {
	case err >= e10:
		return 10
	case err >= e5:
		return 5
	case err >= e2:
		return 2
	default:
		return 1
	}
}

// Ticks returns round values covering [start, stop] at the increment chosen
// by TickIncrement. The result holds approximately count values; an equal
// start and stop yield a single tick, and an invalid step yields none.
func Ticks(start, stop float64, count int) []float64 {
	if start == stop && count > 0 {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	step := TickIncrement(start, stop, count)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}

	var ticks []float64
	if step > 0 {
		r0 := math.Round(start / step)
		r1 := math.Round(stop / step)
		if r0*step < start {
			r0++
		}
		if r1*step > stop {
			r1--
		}
		n := int(r1 - r0 + 1)
		if n < 0 {
			n = 0
		}
		ticks = make([]float64, n)
		for i := range ticks {
			ticks[i] = (r0 + float64(i)) * step
		}
	} else {
		// Inverse-encoded step: multiply instead of divide to keep
		// decimal boundaries exact.
		step = -step
		r0 := math.Round(start * step)
		r1 := math.Round(stop * step)
		if r0/step < start {
			r0++
		}
		if r1/step > stop {
			r1--
		}
		n := int(r1 - r0 + 1)
		if n < 0 {
			n = 0
		}
		ticks = make([]float64, n)
		for i := range ticks {
			ticks[i] = (r0 + float64(i)) / step
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}

	return ticks
}

// niceMaxIterations bounds the domain widening loop; the step stabilizes
// after at most a couple of rounds for any finite domain.
const niceMaxIterations = 10

// NiceDomain widens [start, stop] to round tick boundaries for the given
// tick count. The widened bounds are multiples of the stabilized tick step.
// Degenerate or non-converging domains are returned unchanged.
func NiceDomain(start, stop float64, count int) (float64, float64) {
	origStart, origStop := start, stop
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	var prestep float64
	havePrestep := false
	for i := 0; i < niceMaxIterations; i++ {
		step := TickIncrement(start, stop, count)
		switch {
		case havePrestep && step == prestep:
			if reverse {
				return stop, start
			}
			return start, stop
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return origStart, origStop
		}
		prestep = step
		havePrestep = true
	}

	return origStart, origStop
}
