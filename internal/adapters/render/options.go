package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Option applies a configuration option to the HistogramRenderer.
type Option func(*HistogramRenderer)

// WithSize sets the canvas dimensions. Dimensions that cannot hold the
// chart margins are ignored.
func WithSize(width, height int) Option {
	return func(r *HistogramRenderer) {
		if width > marginLeft+marginRight && height > marginTop+marginBottom {
			r.width = width
			r.height = height
		}
	}
}

// WithBarPadding sets the horizontal gap between adjacent bars in pixels.
func WithBarPadding(padding float64) Option {
	return func(r *HistogramRenderer) {
		if padding >= 0 {
			r.barPadding = padding
		}
	}
}

// WithBackground sets the canvas background color.
func WithBackground(color drawing.Color) Option {
	return func(r *HistogramRenderer) {
		r.background = color
	}
}

// WithSVG selects the vector backend. This is the default.
func WithSVG() Option {
	return func(r *HistogramRenderer) {
		r.provider = chart.SVG
		r.format = FormatSVG
	}
}

// WithPNG selects the raster backend.
func WithPNG() Option {
	return func(r *HistogramRenderer) {
		r.provider = chart.PNG
		r.format = FormatPNG
	}
}

// WithProvider sets a custom drawing backend and the format label it
// produces.
func WithProvider(format string, provider chart.RendererProvider) Option {
	return func(r *HistogramRenderer) {
		if format != "" && provider != nil {
			r.format = format
			r.provider = provider
		}
	}
}
