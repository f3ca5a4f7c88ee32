package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// ChartExport is the serializable representation of a rendered chart.
type ChartExport struct {
	Time          time.Time         `json:"time" msgpack:"time"`
	Latitude      float64           `json:"lat" msgpack:"lat"`
	Longitude     float64           `json:"lon" msgpack:"lon"`
	JulianDay     float64           `json:"julian_day" msgpack:"julian_day"`
	Houses        [12]float64       `json:"houses" msgpack:"houses"`
	AngleOffset   float64           `json:"angle_offset" msgpack:"angle_offset"`
	PartOfFortune float64           `json:"part_of_fortune" msgpack:"part_of_fortune"`
	DayChart      bool              `json:"day_chart" msgpack:"day_chart"`
	Planets       []PlanetExport    `json:"planets" msgpack:"planets"`
	Aspects       []AspectExport    `json:"aspects" msgpack:"aspects"`
	Width         float64           `json:"width" msgpack:"width"`
	Height        float64           `json:"height" msgpack:"height"`
	Radius        float64           `json:"radius" msgpack:"radius"`
	Primitives    []PrimitiveExport `json:"primitives,omitempty" msgpack:"primitives,omitempty"`
}

// PlanetExport is one resolved body.
type PlanetExport struct {
	Body       string  `json:"body" msgpack:"body"`
	Longitude  float64 `json:"longitude" msgpack:"longitude"`
	Speed      float64 `json:"speed" msgpack:"speed"`
	Sign       string  `json:"sign" msgpack:"sign"`
	Position   string  `json:"position" msgpack:"position"`
	Dignity    string  `json:"dignity" msgpack:"dignity"`
	Retrograde bool    `json:"retrograde" msgpack:"retrograde"`
}

// AspectExport is one aspect edge.
type AspectExport struct {
	A     string `json:"a" msgpack:"a"`
	B     string `json:"b" msgpack:"b"`
	Kind  string `json:"kind" msgpack:"kind"`
	Color string `json:"color" msgpack:"color"`
}

// PrimitiveExport flattens a primitive. Only the fields of its kind are set.
type PrimitiveExport struct {
	Kind      string  `json:"kind" msgpack:"kind"`
	X         float64 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y         float64 `json:"y,omitempty" msgpack:"y,omitempty"`
	X2        float64 `json:"x2,omitempty" msgpack:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty" msgpack:"y2,omitempty"`
	Width     float64 `json:"width,omitempty" msgpack:"width,omitempty"`
	Height    float64 `json:"height,omitempty" msgpack:"height,omitempty"`
	Radius    float64 `json:"radius,omitempty" msgpack:"radius,omitempty"`
	Start     float64 `json:"start,omitempty" msgpack:"start,omitempty"`
	End       float64 `json:"end,omitempty" msgpack:"end,omitempty"`
	Color     string  `json:"color" msgpack:"color"`
	LineWidth float64 `json:"line_width,omitempty" msgpack:"line_width,omitempty"`
	Glyph     string  `json:"glyph,omitempty" msgpack:"glyph,omitempty"`
	Text      string  `json:"text,omitempty" msgpack:"text,omitempty"`
	Size      string  `json:"size,omitempty" msgpack:"size,omitempty"`
	Align     string  `json:"align,omitempty" msgpack:"align,omitempty"`
}

// ExportChart converts a chart to its exportable form. Primitives are
// included when withPrimitives is set, with glyph text from glyphs.
func ExportChart(ch chart.Chart, glyphs GlyphSet, withPrimitives bool) *ChartExport {
	export := &ChartExport{
		Time:          ch.Request.Time.UTC(),
		Latitude:      ch.Request.Observer.LatDeg,
		Longitude:     ch.Request.Observer.LonDeg,
		JulianDay:     ch.JulianDay,
		Houses:        ch.Houses,
		AngleOffset:   ch.AngleOffset,
		PartOfFortune: ch.PartOfFortune,
		DayChart:      ch.DayChart,
		Width:         ch.Dimensions.Width,
		Height:        ch.Dimensions.Height,
		Radius:        ch.Dimensions.Radius,
	}

	for _, p := range ch.Planets {
		sign := ""
		if s, err := zodiac.SignOf(p.Longitude); err == nil {
			sign = s.String()
		}
		export.Planets = append(export.Planets, PlanetExport{
			Body:       p.Body.String(),
			Longitude:  p.Longitude,
			Speed:      p.Speed,
			Sign:       sign,
			Position:   zodiac.FormatLongitude(p.Longitude),
			Dignity:    ch.Dignities[p.Body].String(),
			Retrograde: p.Retrograde(),
		})
	}

	export.Aspects = make([]AspectExport, 0, len(ch.Aspects))
	for _, a := range ch.Aspects {
		export.Aspects = append(export.Aspects, AspectExport{
			A:     a.A.String(),
			B:     a.B.String(),
			Kind:  a.Kind.String(),
			Color: string(a.Color),
		})
	}

	if withPrimitives {
		export.Primitives = ExportPrimitives(ch.Primitives, glyphs)
	}
	return export
}

// ExportPrimitives flattens a primitive stream.
func ExportPrimitives(prims []chart.Primitive, glyphs GlyphSet) []PrimitiveExport {
	out := make([]PrimitiveExport, 0, len(prims))
	for _, p := range prims {
		switch v := p.(type) {
		case chart.Fill:
			out = append(out, PrimitiveExport{Kind: "fill", Width: v.Width, Height: v.Height, Color: string(v.Color)})
		case chart.Arc:
			out = append(out, PrimitiveExport{
				Kind:      "arc",
				X:         v.Center.X,
				Y:         v.Center.Y,
				Radius:    v.Radius,
				Start:     v.Start,
				End:       v.End,
				Color:     string(v.Stroke),
				LineWidth: v.LineWidth,
			})
		case chart.Line:
			out = append(out, PrimitiveExport{
				Kind:      "line",
				X:         v.From.X,
				Y:         v.From.Y,
				X2:        v.To.X,
				Y2:        v.To.Y,
				Color:     string(v.Color),
				LineWidth: v.LineWidth,
			})
		case chart.Glyph:
			out = append(out, PrimitiveExport{
				Kind:  "glyph",
				X:     v.At.X,
				Y:     v.At.Y,
				Color: string(v.Color),
				Glyph: string(v.ID),
				Text:  glyphs.Lookup(v.ID),
				Size:  v.Size.String(),
				Align: v.Align.String(),
			})
		}
	}
	return out
}

// WriteJSON writes the export as indented JSON.
func (e *ChartExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteMsgpack writes the export as MessagePack.
func (e *ChartExport) WriteMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(e)
}
