package export

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Zato1one/weatherhist/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "export_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the chart export tool.
func ShowHelp() {
	os.Stdout.WriteString(`Weatherhist Chart Export Tool
=============================

Renders weather metric histogram charts to files, either from a local
dataset or by downloading them from a running weatherhist service.

Usage:
  go run cmd/export-charts/main.go [options]

Options:
  -dataset string
        Path of the JSON weather dataset (default "data/weather.json")
  -url string
        Base URL of a running service; downloads charts instead of rendering
  -out string
        Output directory for chart files (default "charts")
  -metrics string
        Comma separated metric keys to export (default: all)
  -format string
        Chart encoding, svg or png (default "svg")
  -bins int
        Suggested histogram bin boundary count (default 12)
  -width int
        Chart width in pixels (default 600)
  -height int
        Chart height in pixels (default 360)
  -generate int
        Synthesize this many records instead of loading the dataset
  -seed int
        Seed for the synthetic record generator (default 1)
  -write-dataset string
        Save the loaded or generated records to this file
  -workers int
        Number of concurrent download workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for export output (default: export_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Render every chart from the bundled dataset
  go run cmd/export-charts/main.go

  # Render two charts from a synthetic year of weather
  go run cmd/export-charts/main.go -generate 365 -metrics humidity,windSpeed

  # Download the charts a running service already rendered
  go run cmd/export-charts/main.go -url http://localhost:9080 -out charts
`)
}
