// Package chart renders the dashboard's proportion charts as SVG doughnuts.
//
// A chart is drawn from a label list and a value list. The last value is the
// residual "Others" slice and is always painted with the palette's residual
// colour; party slices are painted along the palette's gradient.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 320
	defaultHeight = 320
)

// Palette defines the colours of one chart.
type Palette struct {
	From     drawing.Color
	To       drawing.Color
	Residual drawing.Color
}

var (
	// SeatsPalette is used for the seats-by-party chart.
	SeatsPalette = Palette{From: hex("#da4d60"), To: hex("#ffb6c1"), Residual: hex("#e5e5e5")}

	// VotesPalette is used for the votes-by-party chart.
	VotesPalette = Palette{From: hex("#6933b9"), To: hex("#be9df1"), Residual: hex("#e5e5e5")}
)

// hex parses a "#rrggbb" colour.
func hex(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// Gradient returns steps+1 colours going linearly from one colour to the
// other, both ends included. Channels are truncated toward zero.
func Gradient(from, to drawing.Color, steps int) []drawing.Color {
	if steps <= 0 {
		return []drawing.Color{from}
	}

	step := func(a, b uint8, i int) uint8 {
		return uint8(int(a) + (int(b)-int(a))*i/steps)
	}

	colors := make([]drawing.Color, 0, steps+1)
	for i := 0; i <= steps; i++ {
		colors = append(colors, drawing.Color{
			R: step(from.R, to.R, i),
			G: step(from.G, to.G, i),
			B: step(from.B, to.B, i),
			A: 255,
		})
	}
	return colors
}

// Colors returns n slice colours: a gradient for the first n-1 slices and
// the residual colour for the last one.
func (p Palette) Colors(n int) []drawing.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]drawing.Color, 0, n)
	if n > 1 {
		colors = append(colors, Gradient(p.From, p.To, n-2)...)
	}
	return append(colors, p.Residual)
}

// Size is the rendered chart size in pixels. Zero fields use the defaults.
type Size struct {
	Width  int
	Height int
}

// RenderDonut writes an SVG doughnut chart of values to w.
//
// labels and values may differ in length: extra values are drawn unlabelled.
// Negative values are drawn as empty slices.
func RenderDonut(w io.Writer, labels []string, values []float64, p Palette, size Size) error {
	if len(values) == 0 {
		return errors.New("chart has no values")
	}
	if size.Width <= 0 {
		size.Width = defaultWidth
	}
	if size.Height <= 0 {
		size.Height = defaultHeight
	}

	colors := p.Colors(len(values))
	slices := make([]gochart.Value, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if v < 0 {
			v = 0
		}
		slices[i] = gochart.Value{
			Label: label,
			Value: v,
			Style: gochart.Style{
				FillColor:   colors[i],
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		}
	}

	donut := gochart.DonutChart{
		Width:  size.Width,
		Height: size.Height,
		Values: slices,
	}
	if err := donut.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
