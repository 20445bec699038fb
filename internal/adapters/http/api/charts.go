// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	"github.com/Zato1one/weatherhist/internal/domain/rendercache"
)

// ChartDependencies defines the interface for chart retrieval.
type ChartDependencies interface {
	Chart(ctx context.Context, metric string) (rendercache.Artifact, error)
}

// ChartsHandler handles rendered chart requests.
type ChartsHandler struct {
	deps ChartDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleGetChart handles GET /charts/{metric}.{format} requests. Charts
// carry a weak ETag derived from the dataset version so clients can
// revalidate cheaply between refreshes.
func (h *ChartsHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	metric, format, ok := chartRef(r.URL.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	art, err := h.deps.Chart(r.Context(), metric)
	if err != nil {
		if errors.Is(err, dataset.ErrUnknownMetric) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	// The service renders a single configured format per chart
	if art.Format != format {
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, dataset.ErrUnknownMetric))
		return
	}

	etag := `W/"` + rendercache.Key(art.Version, art.Metric, art.Format) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(art.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Bytes)
}

// contentTypeFor maps a chart encoding to its media type.
func contentTypeFor(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
