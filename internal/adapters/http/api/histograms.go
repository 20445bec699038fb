// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// HistogramDependencies defines the interface for histogram queries.
type HistogramDependencies interface {
	HistogramView(ctx context.Context, metric string) (types.HistogramView, error)
}

// HistogramsHandler handles histogram summary requests.
type HistogramsHandler struct {
	deps HistogramDependencies
}

// NewHistogramsHandler creates a new histogram handler.
func NewHistogramsHandler(deps HistogramDependencies) *HistogramsHandler {
	return &HistogramsHandler{deps: deps}
}

// HandleGetHistogram handles GET /api/histograms/{metric} requests.
func (h *HistogramsHandler) HandleGetHistogram(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_histogram"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	metric, ok := pathParam(r.URL.Path, "/api/histograms/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.HistogramView(r.Context(), metric)
	if err != nil {
		if errors.Is(err, dataset.ErrUnknownMetric) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
