package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// Wheel proportions in pixels.
const (
	ConnectorMax    = 8.0  // longest body connector
	ArrowLength     = 15.0 // Ascendant and Midheaven arrowheads
	SignTickLength  = 30.0
	AspectInset     = 4.0  // aspect lines sit this far inside the ring
	RetrogradeShift = 8.0  // retrograde marker offset, right and up
	arrowSpread     = 1.15 // half-turns between spoke and arrowhead barb
)

// Dimensions are the canvas size and outer ring radius in pixels.
type Dimensions struct {
	Width, Height float64
	Radius        float64
}

// Validate rejects non-positive or non-finite dimensions.
func (d Dimensions) Validate() error {
	for _, v := range []float64{d.Width, d.Height, d.Radius} {
		if !finite(v) || v <= 0 {
			return &Error{
				Kind: KindDegenerateGeometry,
				Step: StepLayout,
				Err:  fmt.Errorf("dimensions %vx%v radius %v", d.Width, d.Height, d.Radius),
			}
		}
	}
	return nil
}

// Center returns the middle of the canvas.
func (d Dimensions) Center() r2.Vec {
	return r2.Vec{X: d.Width / 2, Y: d.Height / 2}
}

// Layout converts resolved positions into primitives in paint order:
// background and ring, hub and spokes, bodies, Part of Fortune, aspect
// lines, then signs and their ticks.
func Layout(res Resolved, dims Dimensions, theme Theme) ([]Primitive, error) {
	return layout(res, Aspects(res), dims, theme)
}

func layout(res Resolved, edges []AspectEdge, dims Dimensions, theme Theme) ([]Primitive, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}

	c := dims.Center()
	r := dims.Radius
	m := math.Min(dims.Width, dims.Height)
	hub := m / 30
	out := make([]Primitive, 0, 64)

	out = append(out,
		Fill{Width: dims.Width, Height: dims.Height, Color: theme.Background},
		Arc{Center: c, Radius: r, Start: 0, End: 360, Stroke: theme.Stroke, LineWidth: 1},
	)

	// hub and house spokes
	out = append(out, Arc{Center: c, Radius: hub, Start: 0, End: 360, Stroke: theme.Stroke, LineWidth: 3})
	for i, cusp := range res.Houses {
		angle := res.ScreenAngle(cusp)
		width, outer := 1.0, r
		if i%3 == 0 {
			width, outer = 3, r+hub
		}
		tip := astro.Project(c, outer, angle)
		out = append(out, Line{From: astro.Project(c, hub, angle), To: tip, Color: theme.Stroke, LineWidth: width})

		if i == 0 || i == 9 {
			for _, sign := range []float64{1, -1} {
				barb := astro.Project(tip, ArrowLength, angle+sign*arrowSpread*180)
				out = append(out, Line{From: tip, To: barb, Color: theme.Stroke, LineWidth: width})
			}
		}
	}

	// bodies
	for _, p := range res.Planets {
		dig, err := zodiac.Classify(p.Body, p.Longitude)
		if err != nil {
			return nil, &Error{Kind: KindDegenerateGeometry, Step: StepBody, Body: p.Body, Err: err}
		}
		color := theme.Dignities.For(dig)
		angle := res.ScreenAngle(p.Longitude)
		at := astro.Project(c, r+hub, angle)

		out = append(out, Glyph{At: at, ID: BodyGlyph(p.Body), Color: color, Size: SizeLarge, Align: AlignCenter})
		if p.Retrograde() {
			out = append(out, Glyph{
				At:    r2.Add(at, r2.Vec{X: RetrogradeShift, Y: -RetrogradeShift}),
				ID:    GlyphRetrograde,
				Color: color,
				Size:  SizeSmall,
				Align: AlignLeft,
			})
		}
		ring := astro.Project(c, r, angle)
		out = append(out, Line{From: ring, To: astro.ClampSegment(ring, at, ConnectorMax), Color: ConnectorColor, LineWidth: 1})
	}

	out = append(out, Glyph{
		At:    astro.Project(c, r*1.05, res.ScreenAngle(res.PartOfFortune)),
		ID:    GlyphPartOfFortune,
		Color: PartOfFortuneColor,
		Size:  SizeMedium,
		Align: AlignCenter,
	})

	for _, e := range edges {
		out = append(out, Line{
			From:      astro.Project(c, r-AspectInset, res.ScreenAngle(res.Planets[e.A].Longitude)),
			To:        astro.Project(c, r-AspectInset, res.ScreenAngle(res.Planets[e.B].Longitude)),
			Color:     e.Color,
			LineWidth: 1,
		})
	}

	// signs, centred in their sectors, and the sector boundaries
	for _, s := range zodiac.Signs() {
		start := res.AngleOffset - 30*float64(s)
		out = append(out,
			Glyph{
				At:    astro.Project(c, r+m/15, start-15),
				ID:    SignGlyph(s),
				Color: theme.Signs,
				Size:  SizeMedium,
				Align: AlignCenter,
			},
			Line{
				From:      astro.Project(c, r, start),
				To:        astro.Project(c, r+SignTickLength, start),
				Color:     theme.Stroke,
				LineWidth: 1,
			},
		)
	}

	return out, nil
}
