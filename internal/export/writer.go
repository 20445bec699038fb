package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Zato1one/weatherhist/internal/domain/weather"
	"github.com/Zato1one/weatherhist/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	chartFilePermission = 0600
)

// writeCharts writes every chart to the output directory as
// <metric>.<format>.
func writeCharts(ctx context.Context, config *Config, charts []chartFile, stats *Stats) error {
	if len(charts) == 0 {
		return fmt.Errorf("no charts to write")
	}

	if err := os.MkdirAll(config.OutDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, chart := range charts {
		path := filepath.Join(config.OutDir, chart.metric+"."+chart.format)
		if err := os.WriteFile(path, chart.data, chartFilePermission); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		stats.FilesWritten++

		if config.Verbose {
			log.Printf("💾 Wrote %s (%d bytes)", path, len(chart.data))
		}
	}

	log.Printf("✅ Wrote %d charts to %s", stats.FilesWritten, config.OutDir)
	logger.Get().Info(ctx, "charts written",
		logger.Int("count", stats.FilesWritten),
		logger.String("dir", config.OutDir))
	return nil
}

// saveDatasetToFile saves the loaded or generated records to a JSON file.
func saveDatasetToFile(ctx context.Context, config *Config, records []weather.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to save")
	}

	filename := config.WriteDataset

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write records to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, record := range records {
		jsonData, err := marshalJSON(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}

		// Add comma except for last record
		if i < len(records)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "dataset saved to file", logger.String("filename", filename))
	return nil
}
