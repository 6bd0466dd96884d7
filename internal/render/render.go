// Package render draws a store snapshot as a PNG line chart.
//
// The renderer only ever sees a [store.Snapshot] value, so it runs after the
// store's lock has been released and its cost never delays the producer.
package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jpalmerr/liveplot/internal/store"
)

const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 3 * vg.Inch
	DefaultDPI    = 100
)

var (
	background = color.Black
	seriesA    = color.RGBA{R: 0x56, G: 0xB4, B: 0xE9, A: 0xff}
	seriesB    = color.RGBA{R: 0xF0, G: 0xE4, B: 0x42, A: 0xff}
	spine      = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	labelText  = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	titleText  = color.White
)

// Options controls the output image size.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
	Title  string
}

// DefaultOptions returns a 12x3 inch chart at 100 DPI (1200x300 pixels).
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		DPI:    DefaultDPI,
		Title:  "Real-Time Plot",
	}
}

// PNG renders snap as a dark-themed line chart and writes it to w.
//
// Series A is drawn in blue with circle markers, series B in yellow with
// square markers. The x axis spans exactly the snapshot's index range.
// An empty snapshot renders empty axes.
func PNG(w io.Writer, snap store.Snapshot, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %vx%v", opts.Width, opts.Height)
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}

	p, err := newPlot(snap, opts.Title)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func newPlot(snap store.Snapshot, title string) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = background

	p.Title.Text = title
	p.Title.TextStyle.Color = titleText
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Value"
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.LineStyle.Color = spine
		axis.Label.TextStyle.Color = labelText
		axis.Tick.Label.Color = labelText
		axis.Tick.LineStyle.Color = spine
	}

	n := snap.Len()
	if n == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return p, nil
	}

	a := make(plotter.XYs, n)
	b := make(plotter.XYs, n)
	for i := range snap.Indices {
		x := float64(snap.Indices[i])
		a[i] = plotter.XY{X: x, Y: float64(snap.SeriesA[i])}
		b[i] = plotter.XY{X: x, Y: snap.SeriesB[i]}
	}

	if err := addSeries(p, a, seriesA, draw.CircleGlyph{}); err != nil {
		return nil, err
	}
	if err := addSeries(p, b, seriesB, draw.BoxGlyph{}); err != nil {
		return nil, err
	}

	p.X.Min = float64(snap.Indices[0])
	p.X.Max = float64(snap.Indices[n-1])
	if p.X.Max == p.X.Min {
		p.X.Max = p.X.Min + 1
	}
	return p, nil
}

func addSeries(p *plot.Plot, xys plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build series: %w", err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	points.Color = c
	points.Shape = shape
	points.Radius = vg.Points(3)
	p.Add(line, points)
	return nil
}
