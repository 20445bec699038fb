// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// MetricsDependencies defines the interface for metric catalog queries.
type MetricsDependencies interface {
	MetricInfos(ctx context.Context) []types.MetricInfo
}

// MetricsHandler handles metric catalog requests.
type MetricsHandler struct {
	deps MetricsDependencies
}

// NewMetricsHandler creates a new metric catalog handler.
func NewMetricsHandler(deps MetricsDependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

// HandleListMetrics handles GET /api/metrics requests.
func (h *MetricsHandler) HandleListMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.MetricInfos(r.Context()))
}
