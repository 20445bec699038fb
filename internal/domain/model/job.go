// Package model contains domain models passed between layers.
package model

import "time"

// RenderJob represents a chart render request flowing through the queue.
// One job produces one chart artifact for one metric.
type RenderJob struct {
	ID         string    // unique id for tracing
	Metric     string    // metric key, e.g., "humidity"
	Width      int       // output width in pixels
	Height     int       // output height in pixels
	EnqueuedAt time.Time // when the job entered the queue
}

// DatasetInfo captures the identity of one loaded dataset generation.
type DatasetInfo struct {
	Path     string    // source file path
	Records  int       // number of records loaded
	Version  string    // opaque id, changes on every reload
	LoadedAt time.Time // when the load completed
}
