// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	app "github.com/Zato1one/weatherhist/internal/app"
	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// RefreshDependencies defines the interface for dataset refresh operations.
type RefreshDependencies interface {
	MetricInfos(ctx context.Context) []types.MetricInfo
	Refresh(ctx context.Context) (int, error)
	EnqueueRender(ctx context.Context, metric string) bool
}

// RefreshHandler handles dataset refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /api/refresh requests. Without a metric
// query parameter the dataset is reloaded and every chart re-rendered;
// with one, only that metric's chart is queued for a re-render.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if metric := strings.TrimSpace(r.URL.Query().Get("metric")); metric != "" {
		if !h.metricKnown(r.Context(), metric) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, dataset.ErrUnknownMetric))
			return
		}
		if ok := h.deps.EnqueueRender(r.Context(), metric); !ok {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", Jobs: 1})
		return
	}

	records, err := h.deps.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, app.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	jobs := len(h.deps.MetricInfos(r.Context()))
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", Records: records, Jobs: jobs})
}

// metricKnown reports whether metric names a charted metric.
func (h *RefreshHandler) metricKnown(ctx context.Context, metric string) bool {
	for _, info := range h.deps.MetricInfos(ctx) {
		if info.Key == metric {
			return true
		}
	}
	return false
}
