package export

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/Zato1one/weatherhist/internal/adapters/render"
	"github.com/Zato1one/weatherhist/internal/domain/histogram"
	"github.com/Zato1one/weatherhist/internal/domain/types"
	"github.com/Zato1one/weatherhist/internal/domain/weather"
)

// chartFile pairs a metric with its encoded chart bytes.
type chartFile struct {
	metric string
	format string
	data   []byte
}

// computeHistograms bins every selected metric over the records.
func computeHistograms(ctx context.Context, config *Config, metrics []weather.Metric, records []weather.Record, stats *Stats) ([]types.HistogramView, error) {
	log.Printf("📊 Computing %d histograms over %d records...", len(metrics), len(records))

	binner := histogram.NewNiceBinner(
		histogram.WithThresholdCount(config.BinCount),
	)

	views := make([]types.HistogramView, 0, len(metrics))
	for _, m := range metrics {
		h, err := binner.Bin(ctx, weather.Values(records, m))
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", m.Key, err)
		}
		views = append(views, viewFromHistogram(m, h))
	}

	stats.HistogramsComputed = len(views)
	log.Printf("✅ Computed %d histograms", len(views))
	return views, nil
}

// renderCharts renders every histogram view with the configured size
// and format.
func renderCharts(ctx context.Context, config *Config, views []types.HistogramView, stats *Stats) ([]chartFile, error) {
	log.Printf("🖼️ Rendering %d charts at %dx%d...", len(views), config.Width, config.Height)

	opts := []render.Option{render.WithSize(config.Width, config.Height)}
	if config.Format == render.FormatPNG {
		opts = append(opts, render.WithPNG())
	}
	renderer := render.NewHistogramRenderer(opts...)

	charts := make([]chartFile, 0, len(views))
	for _, view := range views {
		var buf bytes.Buffer
		if err := renderer.Render(ctx, view, &buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", view.Metric, err)
		}
		charts = append(charts, chartFile{
			metric: view.Metric,
			format: renderer.Format(),
			data:   buf.Bytes(),
		})
	}

	stats.ChartsRendered = len(charts)
	log.Printf("✅ Rendered %d charts", len(charts))
	return charts, nil
}

// viewFromHistogram converts a binned histogram to the chart view shape.
func viewFromHistogram(m weather.Metric, h histogram.Histogram) types.HistogramView {
	bins := make([]types.Bin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = types.Bin{X0: b.X0, X1: b.X1, Count: b.Count}
	}
	return types.HistogramView{
		Metric: m.Key,
		Title:  m.Title,
		X0:     h.X0,
		X1:     h.X1,
		Min:    h.Min,
		Max:    h.Max,
		Mean:   h.Mean,
		Total:  h.Total,
		Bins:   bins,
	}
}
