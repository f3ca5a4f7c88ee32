package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

const emptyColor = lipgloss.Color("236")

// Canvas rasterizes primitives onto a grid of terminal cells.
type Canvas struct {
	cols, rows int
	px         float64 // chart pixels per column
	offX, offY float64 // cell offset of the chart origin
	bg         lipgloss.Color
	cells      [][]rune
	colors     [][]lipgloss.Color
}

// NewCanvas returns a blank canvas that fits a chart of the given
// dimensions into cols x rows cells, centred and with round circles.
func NewCanvas(cols, rows int, dims chart.Dimensions) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	px := math.Max(dims.Width/float64(cols), dims.Height/(float64(rows)*cellAspect))
	if px <= 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		px = 1
	}

	c := &Canvas{
		cols: cols,
		rows: rows,
		px:   px,
		offX: (float64(cols) - dims.Width/px) / 2,
		offY: (float64(rows) - dims.Height/(px*cellAspect)) / 2,
	}
	c.cells = make([][]rune, rows)
	c.colors = make([][]lipgloss.Color, rows)
	for y := range c.cells {
		c.cells[y] = make([]rune, cols)
		c.colors[y] = make([]lipgloss.Color, cols)
	}
	c.clear()
	return c
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

func (c *Canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
			c.colors[y][x] = emptyColor
		}
	}
}

// cell maps a chart pixel to a cell.
func (c *Canvas) cell(x, y float64) (int, int) {
	return int(math.Floor(c.offX + x/c.px)), int(math.Floor(c.offY + y/(c.px*cellAspect)))
}

func (c *Canvas) set(col, row int, r rune, color chart.Color) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = r
	c.colors[row][col] = lipgloss.Color(color)
}

// Paint draws primitives in order.
func (c *Canvas) Paint(prims []chart.Primitive, glyphs GlyphSet) {
	for _, p := range prims {
		switch v := p.(type) {
		case chart.Fill:
			c.clear()
			c.bg = lipgloss.Color(v.Color)
		case chart.Arc:
			c.arc(v)
		case chart.Line:
			c.line(v)
		case chart.Glyph:
			c.glyph(v, glyphs.Lookup(v.ID))
		}
	}
}

func (c *Canvas) arc(a chart.Arc) {
	ch := '·'
	if a.LineWidth >= 3 {
		ch = '•'
	}
	span := a.End - a.Start
	steps := int(math.Abs(span)*math.Pi/180*a.Radius/c.px) * 2
	if steps < 16 {
		steps = 16
	}
	for i := 0; i <= steps; i++ {
		theta := (a.Start + span*float64(i)/float64(steps)) * math.Pi / 180
		col, row := c.cell(a.Center.X+a.Radius*math.Cos(theta), a.Center.Y+a.Radius*math.Sin(theta))
		c.set(col, row, ch, a.Stroke)
	}
}

func (c *Canvas) line(l chart.Line) {
	dx := (l.To.X - l.From.X) / c.px
	dy := (l.To.Y - l.From.Y) / (c.px * cellAspect)
	ch := lineRune(dx, dy, l.LineWidth >= 3)

	steps := int(math.Max(math.Abs(dx), math.Abs(dy))*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col, row := c.cell(l.From.X+(l.To.X-l.From.X)*t, l.From.Y+(l.To.Y-l.From.Y)*t)
		c.set(col, row, ch, l.Color)
	}
}

// lineRune picks a box-drawing rune for a direction in cell space.
func lineRune(dx, dy float64, thick bool) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay < ax*0.4:
		if thick {
			return '━'
		}
		return '─'
	case ax < ay*0.4:
		if thick {
			return '┃'
		}
		return '│'
	case dx*dy > 0:
		return '╲'
	default:
		return '╱'
	}
}

func (c *Canvas) glyph(g chart.Glyph, text string) {
	runes := []rune(text)
	col, row := c.cell(g.At.X, g.At.Y)
	if g.Align == chart.AlignCenter {
		col -= len(runes) / 2
	}
	for i, r := range runes {
		c.set(col+i, row, r, g.Color)
	}
}

// Rune returns the rune at a cell, or 0 outside the canvas.
func (c *Canvas) Rune(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0
	}
	return c.cells[row][col]
}

// Plain returns the canvas without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y, row := range c.cells {
		b.WriteString(strings.TrimRight(string(row), " "))
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the canvas with lipgloss colours. Runs of one colour
// share a style.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			style := lipgloss.NewStyle().Foreground(c.colors[y][start])
			if c.bg != "" {
				style = style.Background(c.bg)
			}
			b.WriteString(style.Render(string(c.cells[y][start:x])))
			start = x
		}
		if y < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
