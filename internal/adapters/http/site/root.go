// Package site handles the embedded chart gallery site.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("gallery site serve failed")
)

// Register attaches the embedded gallery site routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded gallery site at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
