package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// Font sizes in pixels per size class.
var svgFontSize = map[chart.FontSize]int{
	chart.SizeSmall:  10,
	chart.SizeMedium: 16,
	chart.SizeLarge:  20,
}

// WriteSVG paints primitives as an SVG document.
func WriteSVG(w io.Writer, dims chart.Dimensions, prims []chart.Primitive, glyphs GlyphSet) error {
	if err := dims.Validate(); err != nil {
		return err
	}

	canvas := svg.New(w)
	canvas.Start(round(dims.Width), round(dims.Height))

	for _, p := range prims {
		switch v := p.(type) {
		case chart.Fill:
			canvas.Rect(0, 0, round(v.Width), round(v.Height), fmt.Sprintf("fill:%s", v.Color))

		case chart.Arc:
			style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", v.Stroke, v.LineWidth)
			if math.Abs(v.End-v.Start) >= 360 {
				canvas.Circle(round(v.Center.X), round(v.Center.Y), round(v.Radius), style)
				continue
			}
			from := astro.Project(v.Center, v.Radius, v.Start)
			to := astro.Project(v.Center, v.Radius, v.End)
			large := math.Abs(v.End-v.Start) > 180
			canvas.Arc(round(from.X), round(from.Y), round(v.Radius), round(v.Radius), 0,
				large, v.End > v.Start, round(to.X), round(to.Y), style)

		case chart.Line:
			canvas.Line(round(v.From.X), round(v.From.Y), round(v.To.X), round(v.To.Y),
				fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", v.Color, v.LineWidth))

		case chart.Glyph:
			anchor := "middle"
			if v.Align == chart.AlignLeft {
				anchor = "start"
			}
			style := fmt.Sprintf("fill:%s;font-size:%dpx;text-anchor:%s;dominant-baseline:central",
				v.Color, svgFontSize[v.Size], anchor)
			if glyphs.FontFamily != "" {
				style += fmt.Sprintf(";font-family:%s", glyphs.FontFamily)
			}
			canvas.Text(round(v.At.X), round(v.At.Y), glyphs.Lookup(v.ID), style)

		default:
			return fmt.Errorf("unknown primitive %T", p)
		}
	}

	canvas.End()
	return nil
}

func round(x float64) int {
	return int(math.Round(x))
}
