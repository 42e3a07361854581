// Package render draws computed frontier surfaces as standalone SVG scatter
// plots: two color-graded layers, a solid layer for fully allocated restaking
// portfolios, two color bars and a categorical legend.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/restaking-frontier/internal/modules/frontier"
)

// Fixed figure styling. Swatch colors follow the categorical legend of the
// interactive analysis page.
const (
	titleText  = "Non-Leveraged vs Leveraged Portfolios: Expected Return vs Volatility"
	xAxisLabel = "Volatility (Standard Deviation)"
	yAxisLabel = "Expected Return"

	restakingLabel      = "Restaking"
	fullyAllocatedLabel = "Restaking with (1 - φ1 - φ2)=0"
	leveragedLabel      = "Leveraged"

	capitalBarLabel  = "Capital in both AVSs (1 - φ1 - φ2)"
	leverageBarLabel = "Leverage (φ1 + φ2)"

	restakingSwatch     = "#6caed6"
	fullyAllocatedColor = "blue"
	leveragedSwatch     = "#fb6b4b"

	restakingOpacity = 0.8
	leveragedOpacity = 0.1
)

// Options control output geometry.
type Options struct {
	Width        int
	Height       int
	MarkerRadius float64
}

// DefaultOptions returns the standard figure geometry.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 600, MarkerRadius: 2}
}

// Renderer converts a frontier result into a single SVG artifact. It holds
// only immutable styling, so one instance serves concurrent requests.
type Renderer struct {
	opts  Options
	blues Colormap
	reds  Colormap
	log   zerolog.Logger
}

// NewRenderer creates a new SVG renderer. Zero-valued options fall back to
// the defaults.
func NewRenderer(opts Options, log zerolog.Logger) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.MarkerRadius <= 0 {
		opts.MarkerRadius = def.MarkerRadius
	}

	return &Renderer{
		opts:  opts,
		blues: Blues().Reversed(),
		reds:  Reds().Reversed(),
		log:   log.With().Str("service", "render").Logger(),
	}
}

// axis maps data values onto pixel coordinates. pixA/pixB are the pixel
// positions of min/max, so an inverted y axis is just pixA > pixB.
type axis struct {
	min, max   float64
	pixA, pixB float64
}

func (a axis) pos(v float64) float64 {
	return a.pixA + (v-a.min)/(a.max-a.min)*(a.pixB-a.pixA)
}

func (a axis) ticks(count int) []float64 {
	ticks := make([]float64, count)
	for i := range ticks {
		ticks[i] = a.min + (a.max-a.min)*float64(i)/float64(count-1)
	}
	return ticks
}

// padded widens a data range by 5% so markers do not sit on the frame.
func padded(min, max float64) (float64, float64) {
	span := max - min
	if span <= 0 {
		pad := math.Abs(max) * 0.05
		if pad == 0 {
			pad = 0.05
		}
		return min - pad, max + pad
	}
	pad := span * 0.05
	return min - pad, max + pad
}

// normalize rescales v onto [0, 1]; a degenerate range maps to 0.
func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return (v - min) / (max - min)
}

// weightRange returns the min/max color-coding weight of a layer.
func weightRange(points []frontier.Point) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	min, max := points[0].Weight, points[0].Weight
	for _, p := range points {
		min = math.Min(min, p.Weight)
		max = math.Max(max, p.Weight)
	}
	return min, max
}

// Render produces the complete SVG document for a computed result.
func (r *Renderer) Render(res *frontier.Result) ([]byte, error) {
	if res == nil || len(res.Restaking.Points) == 0 || len(res.Leveraged.Points) == 0 {
		return nil, fmt.Errorf("nothing to render: empty result")
	}

	width := float64(r.opts.Width)
	height := float64(r.opts.Height)
	plotLeft := 70.0
	plotTop := 50.0
	plotRight := width - 230
	plotBottom := height - 55

	xMin, xMax := padded(
		math.Min(res.Restaking.Stats.MinVolatility, res.Leveraged.Stats.MinVolatility),
		math.Max(res.Restaking.Stats.MaxVolatility, res.Leveraged.Stats.MaxVolatility),
	)
	yMin, yMax := padded(
		math.Min(res.Restaking.Stats.MinReturn, res.Leveraged.Stats.MinReturn),
		math.Max(res.Restaking.Stats.MaxReturn, res.Leveraged.Stats.MaxReturn),
	)

	x := axis{min: xMin, max: xMax, pixA: plotLeft, pixB: plotRight}
	y := axis{min: yMin, max: yMax, pixA: plotBottom, pixB: plotTop}

	// The graded restaking layer excludes fully allocated points; they are
	// drawn solid on top of both graded layers.
	var graded, fullyAllocated []frontier.Point
	for _, p := range res.Restaking.Points {
		if p.FullyAllocated {
			fullyAllocated = append(fullyAllocated, p)
		} else {
			graded = append(graded, p)
		}
	}

	capitalMin, capitalMax := weightRange(graded)
	leverageMin, leverageMax := weightRange(res.Leveraged.Points)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="Helvetica, Arial, sans-serif">`+"\n",
		r.opts.Width, r.opts.Height, r.opts.Width, r.opts.Height)

	b.WriteString("<defs>\n")
	r.writeGradient(&b, "capital-scale", r.blues)
	r.writeGradient(&b, "leverage-scale", r.reds)
	b.WriteString("</defs>\n")

	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", r.opts.Width, r.opts.Height)
	fmt.Fprintf(&b, `<text x="%.1f" y="30" text-anchor="middle" font-size="16" fill="#222">%s</text>`+"\n",
		(plotLeft+plotRight)/2, titleText)

	r.writeGridAndAxes(&b, x, y, plotLeft, plotTop, plotRight, plotBottom)

	fmt.Fprintf(&b, `<g id="restaking-layer" fill-opacity="%g">`+"\n", restakingOpacity)
	for _, p := range graded {
		color := r.blues.At(normalize(p.Weight, capitalMin, capitalMax))
		r.writeMarker(&b, x.pos(p.Volatility), y.pos(p.ExpectedReturn), color.Hex())
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(&b, `<g id="leveraged-layer" fill-opacity="%g">`+"\n", leveragedOpacity)
	for _, p := range res.Leveraged.Points {
		color := r.reds.At(normalize(p.Weight, leverageMin, leverageMax))
		r.writeMarker(&b, x.pos(p.Volatility), y.pos(p.ExpectedReturn), color.Hex())
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(&b, `<g id="fully-allocated-layer" fill="%s">`+"\n", fullyAllocatedColor)
	for _, p := range fullyAllocated {
		r.writeMarker(&b, x.pos(p.Volatility), y.pos(p.ExpectedReturn), "")
	}
	b.WriteString("</g>\n")

	r.writeColorbar(&b, plotRight+30, plotTop, plotBottom, "capital-scale", capitalBarLabel, capitalMin, capitalMax)
	r.writeColorbar(&b, plotRight+130, plotTop, plotBottom, "leverage-scale", leverageBarLabel, leverageMin, leverageMax)

	r.writeLegend(&b, plotLeft+12, plotTop+12)

	b.WriteString("</svg>\n")

	r.log.Debug().
		Int("restaking_markers", len(graded)).
		Int("fully_allocated_markers", len(fullyAllocated)).
		Int("leveraged_markers", len(res.Leveraged.Points)).
		Int("bytes", b.Len()).
		Msg("Rendered frontier plot")

	return []byte(b.String()), nil
}

// writeGradient emits a vertical gradient running from the ramp's low end at
// the bottom to its high end at the top, matching the color bar orientation.
func (r *Renderer) writeGradient(b *strings.Builder, id string, cmap Colormap) {
	fmt.Fprintf(b, `<linearGradient id="%s" x1="0" y1="1" x2="0" y2="0">`+"\n", id)
	const stops = 10
	for i := 0; i <= stops; i++ {
		t := float64(i) / stops
		fmt.Fprintf(b, `<stop offset="%.0f%%" stop-color="%s"/>`+"\n", t*100, cmap.At(t).Hex())
	}
	b.WriteString("</linearGradient>\n")
}

func (r *Renderer) writeGridAndAxes(b *strings.Builder, x, y axis, left, top, right, bottom float64) {
	b.WriteString(`<g id="grid" stroke="#b0b0b0" stroke-opacity="0.3">` + "\n")
	for _, tick := range x.ticks(6) {
		px := x.pos(tick)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", px, top, px, bottom)
	}
	for _, tick := range y.ticks(6) {
		py := y.pos(tick)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", left, py, right, py)
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#333" stroke-width="1"/>`+"\n",
		left, top, right-left, bottom-top)

	b.WriteString(`<g font-size="11" fill="#333">` + "\n")
	for _, tick := range x.ticks(6) {
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n",
			x.pos(tick), bottom+18, formatTick(tick))
	}
	for _, tick := range y.ticks(6) {
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="end" dy="0.32em">%s</text>`+"\n",
			left-8, y.pos(tick), formatTick(tick))
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="13" fill="#222">%s</text>`+"\n",
		(left+right)/2, bottom+40, xAxisLabel)
	fmt.Fprintf(b, `<text x="22" y="%.1f" text-anchor="middle" font-size="13" fill="#222" transform="rotate(-90 22 %.1f)">%s</text>`+"\n",
		(top+bottom)/2, (top+bottom)/2, yAxisLabel)
}

func (r *Renderer) writeMarker(b *strings.Builder, cx, cy float64, fill string) {
	if fill == "" {
		fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%g"/>`+"\n", cx, cy, r.opts.MarkerRadius)
		return
	}
	fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`+"\n", cx, cy, r.opts.MarkerRadius, fill)
}

// writeColorbar draws one vertical color bar with min/mid/max ticks and a
// rotated label, always fully opaque regardless of the layer opacity.
func (r *Renderer) writeColorbar(b *strings.Builder, barLeft, top, bottom float64, gradientID, label string, min, max float64) {
	const barWidth = 18.0
	barHeight := bottom - top

	fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#%s)" stroke="#333" stroke-width="0.5"/>`+"\n",
		barLeft, top, barWidth, barHeight, gradientID)

	b.WriteString(`<g font-size="11" fill="#333">` + "\n")
	mid := (min + max) / 2
	for _, tick := range []struct {
		value float64
		py    float64
	}{
		{max, top},
		{mid, top + barHeight/2},
		{min, bottom},
	} {
		fmt.Fprintf(b, `<text x="%.1f" y="%.2f" dy="0.32em">%s</text>`+"\n",
			barLeft+barWidth+5, tick.py, formatTick(tick.value))
	}
	b.WriteString("</g>\n")

	labelX := barLeft + barWidth + 42
	labelY := top + barHeight/2
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="12" fill="#222" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		labelX, labelY, labelX, labelY, label)
}

// writeLegend draws the categorical legend with the three fixed entries.
func (r *Renderer) writeLegend(b *strings.Builder, left, top float64) {
	entries := []struct {
		color string
		label string
	}{
		{restakingSwatch, restakingLabel},
		{fullyAllocatedColor, fullyAllocatedLabel},
		{leveragedSwatch, leveragedLabel},
	}

	const rowHeight = 20.0
	boxWidth := 240.0
	boxHeight := rowHeight*float64(len(entries)) + 10

	b.WriteString(`<g id="legend">` + "\n")
	fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white" fill-opacity="0.9" stroke="#ccc"/>`+"\n",
		left, top, boxWidth, boxHeight)
	for i, e := range entries {
		cy := top + 15 + rowHeight*float64(i)
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", left+14, cy, e.color)
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" dy="0.32em" font-size="12" fill="#222">%s</text>`+"\n", left+26, cy, e.label)
	}
	b.WriteString("</g>\n")
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.3g", v)
}
