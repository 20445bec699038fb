package export

import (
	"context"
	"fmt"
	"time"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	"github.com/Zato1one/weatherhist/internal/adapters/render"
	"github.com/Zato1one/weatherhist/internal/domain/weather"
	"github.com/Zato1one/weatherhist/pkg/logger"
)

// Run executes the complete chart export.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting chart export",
		logger.String("baseURL", config.BaseURL),
		logger.String("dataset", config.DatasetPath),
		logger.String("outDir", config.OutDir),
		logger.String("format", config.Format),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	if config.Format != render.FormatSVG && config.Format != render.FormatPNG {
		return fmt.Errorf("unsupported chart format %q", config.Format)
	}

	var err error
	if config.BaseURL != "" {
		err = runRemote(ctx, config, stats)
	} else {
		err = runLocal(ctx, config, stats)
	}
	if err != nil {
		return err
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "export completed successfully")
	return nil
}

// runLocal computes and renders charts from a local dataset.
func runLocal(ctx context.Context, config *Config, stats *Stats) error {
	// Step 1: Resolve the requested metrics
	metrics, err := resolveMetrics(config)
	if err != nil {
		return fmt.Errorf("metric selection failed: %w", err)
	}

	// Step 2: Load or synthesize the dataset
	records, err := loadRecords(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}

	// Step 3: Optionally save the records for later runs
	if config.WriteDataset != "" {
		if err := saveDatasetToFile(ctx, config, records); err != nil {
			logger.Get().Warn(ctx, "failed to save dataset to file", logger.Error(err))
		}
	}

	// Step 4: Compute histograms
	views, err := computeHistograms(ctx, config, metrics, records, stats)
	if err != nil {
		return fmt.Errorf("histogram computation failed: %w", err)
	}

	// Step 5: Verify the histograms against the chart contract
	if err := verifyHistograms(ctx, config, views, len(records)); err != nil {
		return fmt.Errorf("histogram verification failed: %w", err)
	}

	// Step 6: Render charts
	charts, err := renderCharts(ctx, config, views, stats)
	if err != nil {
		return fmt.Errorf("chart rendering failed: %w", err)
	}

	// Step 7: Sanity check the encoded output
	if err := verifyCharts(charts); err != nil {
		return fmt.Errorf("chart verification failed: %w", err)
	}

	// Step 8: Write charts to disk
	if err := writeCharts(ctx, config, charts, stats); err != nil {
		return fmt.Errorf("chart writing failed: %w", err)
	}

	return nil
}

// runRemote downloads rendered charts from a running service.
func runRemote(ctx context.Context, config *Config, stats *Stats) error {
	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the metric catalog
	listings, err := fetchMetricListings(ctx, config)
	if err != nil {
		return fmt.Errorf("metric catalog fetch failed: %w", err)
	}

	// Step 3: Download charts concurrently
	charts, err := fetchCharts(ctx, config, listings, stats)
	if err != nil {
		return fmt.Errorf("chart download failed: %w", err)
	}

	// Step 4: Sanity check the downloaded bytes
	if err := verifyCharts(charts); err != nil {
		return fmt.Errorf("chart verification failed: %w", err)
	}

	// Step 5: Write charts to disk
	if err := writeCharts(ctx, config, charts, stats); err != nil {
		return fmt.Errorf("chart writing failed: %w", err)
	}

	return nil
}

// resolveMetrics maps the requested metric keys to the catalog. An empty
// request selects every charted metric in gallery order.
func resolveMetrics(config *Config) ([]weather.Metric, error) {
	if len(config.Metrics) == 0 {
		return weather.Metrics(), nil
	}

	ms := make([]weather.Metric, 0, len(config.Metrics))
	for _, key := range config.Metrics {
		m, ok := weather.ByKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", key)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// loadRecords loads the dataset file, or synthesizes records when a
// generate count was requested.
func loadRecords(ctx context.Context, config *Config, stats *Stats) ([]weather.Record, error) {
	if config.Generate > 0 {
		return generateRecords(ctx, config, stats), nil
	}

	records, err := dataset.NewFileLoader(config.DatasetPath).Load(ctx)
	if err != nil {
		return nil, err
	}

	stats.RecordsLoaded = len(records)
	logger.Get().Info(ctx, "dataset loaded",
		logger.String("path", config.DatasetPath),
		logger.Int("records", len(records)))
	return records, nil
}

// displayFinalStats prints the final export statistics.
func displayFinalStats(stats *Stats) {
	var successRate float64

	if attempts := stats.ChartsFetched + stats.ChartsFailed; attempts > 0 {
		successRate = float64(stats.ChartsFetched) / float64(attempts) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("recordsLoaded", stats.RecordsLoaded),
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("histogramsComputed", stats.HistogramsComputed),
		logger.Int("chartsRendered", stats.ChartsRendered),
		logger.Int("chartsFetched", stats.ChartsFetched),
		logger.Int("chartsFailed", stats.ChartsFailed),
		logger.Int("filesWritten", stats.FilesWritten),
		logger.Float64("successRate", successRate),
		logger.String("duration", stats.Duration.String()))
}
