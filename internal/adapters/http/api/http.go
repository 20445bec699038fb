// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Zato1one/weatherhist/internal/domain/rendercache"
	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// MetricInfos lists the charted metrics in gallery order.
	MetricInfos(ctx context.Context) []types.MetricInfo

	// HistogramView computes the histogram summary for one metric.
	HistogramView(ctx context.Context, metric string) (types.HistogramView, error)

	// Chart returns the chart artifact for a metric, rendering it on a
	// cache miss.
	Chart(ctx context.Context, metric string) (rendercache.Artifact, error)

	// Refresh reloads the dataset and queues a render job per metric.
	// It reports the number of loaded records.
	Refresh(ctx context.Context) (int, error)

	// EnqueueRender queues a render job for one metric. Returns false
	// on backpressure.
	EnqueueRender(ctx context.Context, metric string) bool
}

// Server wires HTTP routes for the chart API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	metricsHandler    *MetricsHandler
	histogramsHandler *HistogramsHandler
	chartsHandler     *ChartsHandler
	refreshHandler    *RefreshHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		metricsHandler:    NewMetricsHandler(deps),
		histogramsHandler: NewHistogramsHandler(deps),
		chartsHandler:     NewChartsHandler(deps),
		refreshHandler:    NewRefreshHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", RequestIDMiddleware(MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", RequestIDMiddleware(MetricsMiddleware(s.statsHandler.HandleStats, "stats")))
	mux.HandleFunc("/api/metrics", RequestIDMiddleware(MetricsMiddleware(s.metricsHandler.HandleListMetrics, "metrics")))
	mux.HandleFunc("/api/histograms/", RequestIDMiddleware(MetricsMiddleware(s.histogramsHandler.HandleGetHistogram, "histograms")))
	mux.HandleFunc("/api/refresh", RequestIDMiddleware(MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh")))
	mux.HandleFunc("/charts/", RequestIDMiddleware(MetricsMiddleware(s.chartsHandler.HandleGetChart, "charts")))
}

// refreshResponse acknowledges an accepted refresh.
type refreshResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records,omitempty"`
	Jobs    int    `json:"jobs"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
