package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Zato1one/weatherhist/internal/export"
)

// Default configuration constants.
const (
	defaultBinCount      = 12
	defaultChartWidth    = 600
	defaultChartHeight   = 360
	defaultSeed          = 1
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultExportTimeout = 10 * time.Minute
)

func main() {
	var (
		datasetPath  = flag.String("dataset", "data/weather.json", "Path to the weather dataset JSON file")
		baseURL      = flag.String("url", "", "Base URL of a running service (when set, charts are downloaded instead of rendered)")
		outDir       = flag.String("out", "charts", "Output directory for chart files")
		metricList   = flag.String("metrics", "", "Comma-separated metric keys to export (default: all)")
		format       = flag.String("format", "svg", "Chart format: svg or png")
		binCount     = flag.Int("bins", defaultBinCount, "Bin count hint for the histograms")
		width        = flag.Int("width", defaultChartWidth, "Chart width in pixels")
		height       = flag.Int("height", defaultChartHeight, "Chart height in pixels")
		generate     = flag.Int("generate", 0, "Generate this many synthetic records instead of loading the dataset")
		seed         = flag.Int64("seed", defaultSeed, "Random seed for synthetic record generation")
		writeDataset = flag.String("write-dataset", "", "Write the loaded or generated records to this JSON file")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent download workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile      = flag.String("log", "", "Log file for export output (default: export_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		export.ShowHelp()
		return
	}

	// Setup logging
	if err := export.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultExportTimeout)
	defer cancel()

	// Create export configuration
	config := &export.Config{
		DatasetPath:  *datasetPath,
		BaseURL:      *baseURL,
		OutDir:       *outDir,
		Metrics:      splitMetrics(*metricList),
		Format:       *format,
		BinCount:     *binCount,
		Width:        *width,
		Height:       *height,
		Generate:     *generate,
		Seed:         *seed,
		WriteDataset: *writeDataset,
		Workers:      *workers,
		Timeout:      *timeout,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the export
	if err := export.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Export failed: " + err.Error() + "\n")
		return
	}
}

// splitMetrics splits a comma-separated metric list, dropping empty
// entries. An empty input selects every metric.
func splitMetrics(list string) []string {
	if list == "" {
		return nil
	}

	var keys []string
	for _, part := range strings.Split(list, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
