// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns an HTML page that polls /stats and /api/metrics to visualize
// dataset, queue and cache state alongside the chart gallery
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page
	req := r.Clone(r.Context())
	req.URL.Path = "/dashboard.html"
	http.FileServer(http.FS(dashboardFS)).ServeHTTP(w, req)
}
