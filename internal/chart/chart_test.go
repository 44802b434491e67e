package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestGradient(t *testing.T) {
	from := drawing.Color{R: 0, G: 100, B: 200, A: 255}
	to := drawing.Color{R: 100, G: 100, B: 0, A: 255}

	got := Gradient(from, to, 4)
	if len(got) != 5 {
		t.Fatalf("Gradient() returned %d colours, want 5", len(got))
	}
	if got[0] != from {
		t.Errorf("Gradient()[0] = %v, want %v", got[0], from)
	}
	if got[4] != to {
		t.Errorf("Gradient()[4] = %v, want %v", got[4], to)
	}

	mid := drawing.Color{R: 50, G: 100, B: 100, A: 255}
	if got[2] != mid {
		t.Errorf("Gradient()[2] = %v, want %v", got[2], mid)
	}
}

func TestGradient_NoSteps(t *testing.T) {
	from := drawing.Color{R: 1, G: 2, B: 3, A: 255}
	got := Gradient(from, drawing.ColorWhite, 0)
	if len(got) != 1 || got[0] != from {
		t.Errorf("Gradient(steps=0) = %v, want [%v]", got, from)
	}
}

func TestPalette_Colors(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "none", n: 0, want: 0},
		{name: "residual only", n: 1, want: 1},
		{name: "one party", n: 2, want: 2},
		{name: "many parties", n: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeatsPalette.Colors(tt.n)
			if len(got) != tt.want {
				t.Fatalf("Colors(%d) returned %d colours, want %d", tt.n, len(got), tt.want)
			}
			if tt.n > 0 && got[len(got)-1] != SeatsPalette.Residual {
				t.Errorf("Colors(%d) last = %v, want residual %v", tt.n, got[len(got)-1], SeatsPalette.Residual)
			}
			if tt.n > 1 && got[0] != SeatsPalette.From {
				t.Errorf("Colors(%d) first = %v, want %v", tt.n, got[0], SeatsPalette.From)
			}
		})
	}
}

func TestRenderDonut(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDonut(&buf, []string{"A", "B", "Others"}, []float64{40, 30, 55}, SeatsPalette, Size{})
	if err != nil {
		t.Fatalf("RenderDonut() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("RenderDonut() output is not SVG: %.80s", buf.String())
	}
}

func TestRenderDonut_PlaceholderLabel(t *testing.T) {
	// a single placeholder label against the residual value
	var buf bytes.Buffer
	err := RenderDonut(&buf, []string{"N./A."}, []float64{125}, SeatsPalette, Size{Width: 200, Height: 200})
	if err != nil {
		t.Fatalf("RenderDonut() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("RenderDonut() wrote nothing")
	}
}

func TestRenderDonut_NoValues(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDonut(&buf, nil, nil, VotesPalette, Size{}); err == nil {
		t.Error("RenderDonut() expected error for empty values, got nil")
	}
}
