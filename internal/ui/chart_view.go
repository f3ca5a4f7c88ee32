package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
)

// Approximate pixel size of a terminal cell, used to size the chart.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Minimum content area for the wheel.
const (
	minChartCols = 30
	minChartRows = 12
)

// ChartViewModel draws the chart wheel onto a terminal canvas.
type ChartViewModel struct {
	width  int
	height int
	glyphs render.GlyphSet
	chart  *chart.Chart
}

// NewChartViewModel creates a chart view.
func NewChartViewModel(glyphs render.GlyphSet) ChartViewModel {
	return ChartViewModel{glyphs: glyphs}
}

// SetSize updates the content area.
func (m ChartViewModel) SetSize(width, height int) ChartViewModel {
	m.width = width
	m.height = height
	return m
}

// SetGlyphs switches the glyph set. Glyphs are resolved at paint time so
// no re-render is needed.
func (m ChartViewModel) SetGlyphs(g render.GlyphSet) ChartViewModel {
	m.glyphs = g
	return m
}

// UpdateData swaps in a freshly rendered chart.
func (m ChartViewModel) UpdateData(ch *chart.Chart) ChartViewModel {
	m.chart = ch
	return m
}

// Dimensions returns the chart geometry for the current view size.
func (m ChartViewModel) Dimensions() chart.Dimensions {
	return render.FitViewport(float64(m.width*cellWidthPx), float64(m.height*cellHeightPx))
}

// View renders the wheel.
func (m ChartViewModel) View() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	if m.width < minChartCols || m.height < minChartRows {
		return "\n  " + dimStyle.Render("Chart view requires larger terminal")
	}
	if m.chart == nil {
		return "\n  " + dimStyle.Render("Casting chart...")
	}

	// leave room for the side margin and a legend line
	cols, rows := m.width-4, m.height-2
	canvas := render.NewCanvas(cols, rows, m.chart.Dimensions)
	canvas.Paint(m.chart.Primitives, m.glyphs)

	var b strings.Builder
	for _, line := range strings.Split(canvas.String(), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  " + m.legend())
	return b.String()
}

func (m ChartViewModel) legend() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	dig := m.chart.Theme.Dignities

	parts := []string{
		lipgloss.NewStyle().Foreground(lipgloss.Color(dig.Domicile)).Render("■ domicile"),
		lipgloss.NewStyle().Foreground(lipgloss.Color(dig.Exaltation)).Render("■ exaltation"),
		lipgloss.NewStyle().Foreground(lipgloss.Color(dig.Detriment)).Render("■ detriment"),
		lipgloss.NewStyle().Foreground(lipgloss.Color(dig.Fall)).Render("■ fall"),
	}
	return strings.Join(parts, "  ") + dimStyle.Render("   "+m.glyphs.Lookup(chart.GlyphRetrograde)+" retrograde")
}
