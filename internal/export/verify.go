package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Zato1one/weatherhist/internal/adapters/render"
	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// pngSignature is the magic prefix of a PNG stream.
var pngSignature = []byte("\x89PNG\r\n\x1a\n") //nolint:gochecknoglobals // fixed file signature

// verifyHistograms verifies every computed histogram against the chart
// contract: bins tile the domain, counts account for every record, and
// the summary statistics sit inside the observed range.
func verifyHistograms(ctx context.Context, config *Config, views []types.HistogramView, records int) error {
	log.Println("🔍 Verifying histograms...")

	if len(views) == 0 {
		return fmt.Errorf("no histograms to verify")
	}

	for _, view := range views {
		if err := verifySingleHistogram(view, records); err != nil {
			return fmt.Errorf("%s: %w", view.Metric, err)
		}
	}

	// Display histogram summaries
	displayHistogramSummaries(views, config.Verbose)

	log.Println("✅ Histogram verification completed")
	return nil
}

// verifySingleHistogram checks one histogram summary.
func verifySingleHistogram(view types.HistogramView, records int) error {
	if view.Total != records {
		return fmt.Errorf("total %d does not match %d records", view.Total, records)
	}
	if len(view.Bins) == 0 {
		return fmt.Errorf("no bins")
	}

	sum := 0
	for i, bin := range view.Bins {
		if bin.X1 < bin.X0 {
			return fmt.Errorf("bin %d upper bound %.4f below lower bound %.4f", i, bin.X1, bin.X0)
		}
		if i > 0 && view.Bins[i-1].X1 != bin.X0 {
			return fmt.Errorf("gap between bin %d and bin %d", i-1, i)
		}
		sum += bin.Count
	}
	if sum != view.Total {
		return fmt.Errorf("bin counts sum to %d, want %d", sum, view.Total)
	}

	first, last := view.Bins[0], view.Bins[len(view.Bins)-1]
	if first.X0 != view.X0 || last.X1 != view.X1 {
		return fmt.Errorf("bins [%.4f, %.4f] do not tile the domain [%.4f, %.4f]",
			first.X0, last.X1, view.X0, view.X1)
	}
	if view.Min < view.X0 || view.Max > view.X1 {
		return fmt.Errorf("domain [%.4f, %.4f] does not cover observed [%.4f, %.4f]",
			view.X0, view.X1, view.Min, view.Max)
	}
	if view.Mean < view.Min || view.Mean > view.Max {
		return fmt.Errorf("mean %.4f outside observed [%.4f, %.4f]", view.Mean, view.Min, view.Max)
	}

	return nil
}

// displayHistogramSummaries shows a one-line summary per metric.
func displayHistogramSummaries(views []types.HistogramView, verbose bool) {
	log.Printf("📊 Histogram summaries for %d metrics:", len(views))
	for _, view := range views {
		log.Printf("   %s - %d bins, mean: %.3f", view.Metric, len(view.Bins), view.Mean)
	}

	if verbose {
		for _, view := range views {
			log.Printf(`📊 %s distribution:
   Domain:  [%.3f, %.3f]
   Observed: [%.3f, %.3f]
   Mean:    %.3f
   Total:   %d
`, view.Metric, view.X0, view.X1, view.Min, view.Max, view.Mean, view.Total)
		}
	}
}

// verifyCharts sanity checks the encoded chart bytes.
func verifyCharts(charts []chartFile) error {
	log.Println("🔍 Verifying chart encodings...")

	if len(charts) == 0 {
		return fmt.Errorf("no charts to verify")
	}

	for _, chart := range charts {
		if len(chart.data) == 0 {
			return fmt.Errorf("%s: empty chart", chart.metric)
		}
		switch chart.format {
		case render.FormatSVG:
			if !strings.Contains(string(chart.data), "<svg") {
				return fmt.Errorf("%s: not an SVG document", chart.metric)
			}
		case render.FormatPNG:
			if !bytes.HasPrefix(chart.data, pngSignature) {
				return fmt.Errorf("%s: missing PNG signature", chart.metric)
			}
		default:
			return fmt.Errorf("%s: unknown format %q", chart.metric, chart.format)
		}
	}

	log.Printf("✅ Verified %d chart encodings", len(charts))
	return nil
}
