// Package types contains common types used across the application
package types

// MetricInfo describes one charted metric in API responses
type MetricInfo struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	ChartPath string `json:"chart_path"`
}

// Bin is one histogram interval in API responses
type Bin struct {
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Count int     `json:"count"`
}

// HistogramView is the JSON summary of one metric's histogram
type HistogramView struct {
	Metric string  `json:"metric"`
	Title  string  `json:"title"`
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Total  int     `json:"total"`
	Bins   []Bin   `json:"bins"`
}
