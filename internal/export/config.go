package export

import "time"

// Config holds configuration for a chart export run
type Config struct {
	DatasetPath  string        // Local dataset file to load
	BaseURL      string        // Remote service to download charts from
	OutDir       string        // Directory for exported charts
	Metrics      []string      // Metric keys to export; empty selects all
	Format       string        // Chart encoding, svg or png
	BinCount     int           // Suggested histogram bin boundary count
	Width        int           // Chart width in pixels
	Height       int           // Chart height in pixels
	Generate     int           // Number of synthetic records to generate
	Seed         int64         // Seed for the synthetic generator
	WriteDataset string        // Optional path to save the records backing this run
	Workers      int           // Number of concurrent download workers
	Timeout      time.Duration // HTTP request timeout
	LogFile      string        // Log file for export output
	Verbose      bool          // Enable verbose logging
}

// MetricListing represents one entry of the metric catalog endpoint
type MetricListing struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	ChartPath string `json:"chart_path"`
}

// Stats holds export statistics
type Stats struct {
	RecordsLoaded      int
	RecordsGenerated   int
	HistogramsComputed int
	ChartsRendered     int
	ChartsFetched      int
	ChartsFailed       int
	FilesWritten       int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
