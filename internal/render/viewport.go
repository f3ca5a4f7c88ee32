package render

import "github.com/litescript/ls-natal/internal/chart"

// Chart size limits in pixels.
const (
	MaxChartSize = 600
	MinChartSize = 100
)

// FitViewport picks a square chart size for a view of the given size.
// The wheel leaves 50px on every side for glyphs and ticks.
func FitViewport(viewW, viewH float64) chart.Dimensions {
	v := min(viewW-20, viewH)
	if v > MaxChartSize {
		v = MaxChartSize
	}
	if v > viewH-200 {
		v = viewH - 210
	}
	if v > viewW-10 {
		v = viewW - 10
	}
	if v < MinChartSize {
		v = MinChartSize + 2
	}
	return chart.Dimensions{Width: v, Height: v, Radius: (v - 100) / 2}
}
