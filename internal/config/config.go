// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use plain koanf tags.
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers an optional YAML file and environment overrides.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the JSON weather dataset file.
	DatasetPath string `koanf:"dataset_path"`

	// BinCount suggests the number of histogram bin boundaries.
	BinCount int `koanf:"bin_count"`

	// ChartWidth and ChartHeight set the rendered chart size in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// RenderQueueSize bounds the in-memory render queue.
	RenderQueueSize int `koanf:"render_queue_size"`

	// RenderWorkerCount sets the number of render workers.
	RenderWorkerCount int `koanf:"render_worker_count"`

	// ChartCacheSize caps the number of cached chart artifacts.
	ChartCacheSize int `koanf:"chart_cache_size"`

	// RefreshSchedule is a cron expression for periodic dataset reloads.
	// An empty schedule disables them.
	RefreshSchedule string `koanf:"refresh_schedule"`

	// WarmOnStart queues a render for every metric at startup.
	WarmOnStart bool `koanf:"warm_on_start"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DatasetPath:       "data/weather.json",
		BinCount:          12,
		ChartWidth:        600,
		ChartHeight:       360,
		RenderQueueSize:   64,
		RenderWorkerCount: runtime.NumCPU(),
		ChartCacheSize:    64,
		RefreshSchedule:   "@hourly",
		WarmOnStart:       true,
	}
	return c
}
