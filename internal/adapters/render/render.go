// Package render draws histogram charts onto SVG or PNG canvases.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Zato1one/weatherhist/internal/domain/histogram"
	"github.com/Zato1one/weatherhist/internal/domain/types"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Default chart geometry constants.
const (
	defaultWidth  = 600
	defaultHeight = 360

	marginTop    = 30
	marginRight  = 10
	marginBottom = 50
	marginLeft   = 50

	defaultBarPadding = 1.0

	barLabelFontSize = 12
	barLabelRise     = 5

	meanLineOverhang = 15
	meanLabelRise    = 20

	axisTickCount   = 10
	axisTickSize    = 6
	axisTickPadding = 3
	axisFontSize    = 10

	titleFontSize = 14
	titleDrop     = 40

	countNiceStep = 10
)

// Chart palette.
//
//nolint:gochecknoglobals // fixed drawing style
var (
	barColor      = drawing.ColorFromHex("6495ed") // cornflowerblue
	barLabelColor = drawing.ColorFromHex("a9a9a9") // darkgrey
	meanColor     = drawing.ColorFromHex("800000") // maroon
	axisColor     = drawing.ColorBlack
	canvasColor   = drawing.ColorWhite

	meanDashArray = []float64{2, 4}
)

// Renderer draws a histogram view into a writer.
type Renderer interface {
	// Render draws the view, honoring ctx for cancellation.
	Render(ctx context.Context, view types.HistogramView, w io.Writer) error
	// Format reports the output format produced by Render.
	Format() string
}

// HistogramRenderer implements Renderer on the go-chart drawing backends.
type HistogramRenderer struct {
	width      int
	height     int
	barPadding float64
	background drawing.Color
	provider   chart.RendererProvider
	format     string
}

// NewHistogramRenderer creates a renderer with configuration options.
// The default output is a 600x360 SVG.
func NewHistogramRenderer(opts ...Option) *HistogramRenderer {
	r := &HistogramRenderer{
		width:      defaultWidth,
		height:     defaultHeight,
		barPadding: defaultBarPadding,
		background: canvasColor,
		provider:   chart.SVG,
		format:     FormatSVG,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Format reports the output format produced by Render.
func (r *HistogramRenderer) Format() string {
	return r.format
}

// Size reports the canvas dimensions in pixels.
func (r *HistogramRenderer) Size() (width, height int) {
	return r.width, r.height
}

// Render draws the histogram view and writes the encoded chart to w.
func (r *HistogramRenderer) Render(ctx context.Context, view types.HistogramView, w io.Writer) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("render cancelled: %w", ctx.Err())
	default:
	}

	if len(view.Bins) == 0 {
		return ErrEmptyHistogram
	}

	canvas, err := r.provider(r.width, r.height)
	if err != nil {
		return fmt.Errorf("%w: create canvas: %v", ErrRender, err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("%w: load font: %v", ErrRender, err)
	}
	canvas.SetFont(font)

	boundedWidth := r.width - marginLeft - marginRight
	boundedHeight := r.height - marginTop - marginBottom

	xScale := newLinearScale(view.X0, view.X1, 0, float64(boundedWidth))

	maxCount := 0
	for _, b := range view.Bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	// Round the count domain up to a tick boundary so the tallest bar
	// does not touch the top margin
	_, countCeil := histogram.NiceDomain(0, float64(maxCount), countNiceStep)
	yScale := newLinearScale(0, countCeil, float64(boundedHeight), 0)

	r.drawBackground(canvas)
	r.drawBars(canvas, view.Bins, xScale, yScale, boundedHeight)
	r.drawBarLabels(canvas, view.Bins, xScale, yScale)
	r.drawMeanLine(canvas, view.Mean, xScale, boundedHeight)
	r.drawAxis(canvas, view, xScale, boundedWidth, boundedHeight)
	r.drawTitle(canvas, view.Title, boundedWidth, boundedHeight)

	if err := canvas.Save(w); err != nil {
		return fmt.Errorf("%w: save canvas: %v", ErrRender, err)
	}

	return nil
}

// drawBackground fills the full canvas.
func (r *HistogramRenderer) drawBackground(canvas chart.Renderer) {
	canvas.SetFillColor(r.background)
	canvas.MoveTo(0, 0)
	canvas.LineTo(r.width, 0)
	canvas.LineTo(r.width, r.height)
	canvas.LineTo(0, r.height)
	canvas.Close()
	canvas.Fill()
}

// drawBars fills one rectangle per bin. Zero-count bins produce
// zero-height paths that render nothing.
func (r *HistogramRenderer) drawBars(canvas chart.Renderer, bins []types.Bin, xScale, yScale linearScale, boundedHeight int) {
	canvas.SetFillColor(barColor)
	bottom := marginTop + boundedHeight

	for _, b := range bins {
		left := xScale.Apply(b.X0)
		right := xScale.Apply(b.X1)

		barWidth := px(right - left - r.barPadding)
		if barWidth < 0 {
			barWidth = 0
		}
		barX := marginLeft + px(left+r.barPadding/2)
		barTop := marginTop + px(yScale.Apply(float64(b.Count)))

		canvas.MoveTo(barX, barTop)
		canvas.LineTo(barX+barWidth, barTop)
		canvas.LineTo(barX+barWidth, bottom)
		canvas.LineTo(barX, bottom)
		canvas.Close()
		canvas.Fill()
	}
}

// drawBarLabels writes the count above each non-empty bar.
func (r *HistogramRenderer) drawBarLabels(canvas chart.Renderer, bins []types.Bin, xScale, yScale linearScale) {
	canvas.SetFontSize(barLabelFontSize)
	canvas.SetFontColor(barLabelColor)

	for _, b := range bins {
		if b.Count == 0 {
			continue
		}

		label := strconv.Itoa(b.Count)
		center := marginLeft + px((xScale.Apply(b.X0)+xScale.Apply(b.X1))/2)
		baseline := marginTop + px(yScale.Apply(float64(b.Count))) - barLabelRise

		width := canvas.MeasureText(label).Width()
		canvas.Text(label, center-width/2, baseline)
	}
}

// drawMeanLine draws the dashed vertical rule at the mean value with its
// label above the bounded area.
func (r *HistogramRenderer) drawMeanLine(canvas chart.Renderer, mean float64, xScale linearScale, boundedHeight int) {
	x := marginLeft + px(xScale.Apply(mean))

	canvas.SetStrokeColor(meanColor)
	canvas.SetStrokeWidth(1)
	canvas.SetStrokeDashArray(meanDashArray)
	canvas.MoveTo(x, marginTop-meanLineOverhang)
	canvas.LineTo(x, marginTop+boundedHeight)
	canvas.Stroke()
	canvas.SetStrokeDashArray(nil)

	label := "mean"
	canvas.SetFontSize(barLabelFontSize)
	canvas.SetFontColor(meanColor)
	width := canvas.MeasureText(label).Width()
	canvas.Text(label, x-width/2, marginTop-meanLabelRise)
}

// drawAxis draws the bottom domain line, tick marks and tick labels.
func (r *HistogramRenderer) drawAxis(canvas chart.Renderer, view types.HistogramView, xScale linearScale, boundedWidth, boundedHeight int) {
	baseY := marginTop + boundedHeight

	canvas.SetStrokeColor(axisColor)
	canvas.SetStrokeWidth(1)
	canvas.MoveTo(marginLeft, baseY)
	canvas.LineTo(marginLeft+boundedWidth, baseY)
	canvas.Stroke()

	canvas.SetFontSize(axisFontSize)
	canvas.SetFontColor(axisColor)

	for _, t := range histogram.Ticks(view.X0, view.X1, axisTickCount) {
		x := marginLeft + px(xScale.Apply(t))

		canvas.MoveTo(x, baseY)
		canvas.LineTo(x, baseY+axisTickSize)
		canvas.Stroke()

		label := strconv.FormatFloat(t, 'f', -1, 64)
		width := canvas.MeasureText(label).Width()
		canvas.Text(label, x-width/2, baseY+axisTickSize+axisTickPadding+axisFontSize)
	}
}

// drawTitle writes the capitalized metric title under the axis.
func (r *HistogramRenderer) drawTitle(canvas chart.Renderer, title string, boundedWidth, boundedHeight int) {
	canvas.SetFontSize(titleFontSize)
	canvas.SetFontColor(axisColor)

	width := canvas.MeasureText(title).Width()
	canvas.Text(title, marginLeft+boundedWidth/2-width/2, marginTop+boundedHeight+titleDrop)
}

// linearScale maps a numeric domain onto a pixel range.
type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func newLinearScale(d0, d1, r0, r1 float64) linearScale {
	return linearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Apply maps v from the domain onto the range. A zero-width domain maps
// every value to the range start.
func (s linearScale) Apply(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// px rounds a scaled coordinate to whole pixels.
func px(v float64) int {
	return int(math.Round(v))
}
