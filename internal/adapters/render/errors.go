package render

import "errors"

// Sentinel kinds.
var (
	// ErrEmptyHistogram indicates a view with no bins to draw.
	ErrEmptyHistogram = errors.New("histogram has no bins")

	// ErrRender indicates the canvas could not be created, drawn or encoded.
	ErrRender = errors.New("render failed")
)
