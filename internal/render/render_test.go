package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

var testDims = chart.Dimensions{Width: 600, Height: 600, Radius: 250}

func testChart(t *testing.T) chart.Chart {
	t.Helper()
	req := chart.Request{
		Time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Observer: astro.Observer{LatDeg: -19.92, LonDeg: -43.93},
	}
	ch, err := chart.Render(ephem.NewMeeusProvider(), req, testDims, chart.DefaultTheme())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return ch
}

func TestGlyphSets(t *testing.T) {
	tests := []struct {
		set  GlyphSet
		id   chart.GlyphID
		want string
	}{
		{UnicodeGlyphs(), chart.BodyGlyph(zodiac.Sun), "☉"},
		{UnicodeGlyphs(), chart.BodyGlyph(zodiac.Saturn), "♄"},
		{UnicodeGlyphs(), chart.SignGlyph(zodiac.Aries), "♈"},
		{UnicodeGlyphs(), chart.SignGlyph(zodiac.Pisces), "♓"},
		{UnicodeGlyphs(), chart.GlyphPartOfFortune, "⊗"},
		{FontGlyphs(), chart.BodyGlyph(zodiac.Sun), "A"},
		{FontGlyphs(), chart.BodyGlyph(zodiac.Saturn), "G"},
		{FontGlyphs(), chart.SignGlyph(zodiac.Aries), "a"},
		{FontGlyphs(), chart.SignGlyph(zodiac.Pisces), "l"},
		{FontGlyphs(), chart.GlyphPartOfFortune, "O"},
		{FontGlyphs(), chart.GlyphID("unknown"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.set.Name+"/"+string(tt.id), func(t *testing.T) {
			if got := tt.set.Lookup(tt.id); got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}

	if ParseGlyphSet("font").Name != "font" || ParseGlyphSet("whatever").Name != "unicode" {
		t.Error("ParseGlyphSet picked the wrong set")
	}
}

func TestWriteSVG(t *testing.T) {
	ch := testChart(t)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, ch.Dimensions, ch.Primitives, UnicodeGlyphs()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<svg width="600" height="600"`) {
		t.Errorf("missing svg header:\n%.200s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("document not closed")
	}

	var glyphs, lines int
	for _, p := range ch.Primitives {
		switch p.(type) {
		case chart.Glyph:
			glyphs++
		case chart.Line:
			lines++
		}
	}
	if got := strings.Count(out, "<text"); got != glyphs {
		t.Errorf("<text> count = %d, want %d", got, glyphs)
	}
	if got := strings.Count(out, "<line"); got != lines {
		t.Errorf("<line> count = %d, want %d", got, lines)
	}
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("<circle> count = %d, want ring and hub", got)
	}
	if !strings.Contains(out, "☉") || !strings.Contains(out, "fill:#1C1C1C") {
		t.Error("missing Sun glyph or background")
	}
}

func TestWriteSVGFontFamily(t *testing.T) {
	var buf bytes.Buffer
	prims := []chart.Primitive{
		chart.Glyph{At: r2.Vec{X: 10, Y: 10}, ID: chart.SignGlyph(zodiac.Leo), Color: "#FFF", Size: chart.SizeMedium},
	}
	if err := WriteSVG(&buf, testDims, prims, FontGlyphs()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "font-family:AstroDotBasic") || !strings.Contains(out, ">e</text>") {
		t.Errorf("font glyph not rendered:\n%s", out)
	}
}

func TestWriteSVGPartialArc(t *testing.T) {
	var buf bytes.Buffer
	prims := []chart.Primitive{
		chart.Arc{Center: r2.Vec{X: 300, Y: 300}, Radius: 100, Start: 0, End: 90, Stroke: "#FFF", LineWidth: 1},
	}
	if err := WriteSVG(&buf, testDims, prims, UnicodeGlyphs()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<path d=\"M400,300") {
		t.Errorf("partial arc not drawn as a path:\n%s", buf.String())
	}
}

func TestWriteSVGBadDimensions(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSVG(&buf, chart.Dimensions{Width: 0, Height: 600, Radius: 10}, nil, UnicodeGlyphs())
	if !chart.IsKind(err, chart.KindDegenerateGeometry) {
		t.Errorf("err = %v, want degenerate geometry", err)
	}
	if buf.Len() != 0 {
		t.Error("wrote output for bad dimensions")
	}
}

func TestCanvasLine(t *testing.T) {
	dims := chart.Dimensions{Width: 100, Height: 100, Radius: 40}
	c := NewCanvas(50, 25, dims)
	c.Paint([]chart.Primitive{
		chart.Fill{Width: 100, Height: 100, Color: "#000"},
		chart.Line{From: r2.Vec{X: 0, Y: 50}, To: r2.Vec{X: 100, Y: 50}, Color: "#FFF", LineWidth: 1},
		chart.Line{From: r2.Vec{X: 50, Y: 0}, To: r2.Vec{X: 50, Y: 40}, Color: "#FFF", LineWidth: 3},
	}, UnicodeGlyphs())

	// 2px per column, 4px per row
	if r := c.Rune(10, 12); r != '─' {
		t.Errorf("Rune(10,12) = %q, want horizontal line", r)
	}
	if r := c.Rune(25, 5); r != '┃' {
		t.Errorf("Rune(25,5) = %q, want thick vertical line", r)
	}
	if r := c.Rune(5, 3); r != ' ' {
		t.Errorf("Rune(5,3) = %q, want blank", r)
	}
	if r := c.Rune(-1, 0); r != 0 {
		t.Errorf("Rune outside = %q, want 0", r)
	}
}

func TestCanvasGlyphAndArc(t *testing.T) {
	dims := chart.Dimensions{Width: 100, Height: 100, Radius: 40}
	c := NewCanvas(50, 25, dims)
	c.Paint([]chart.Primitive{
		chart.Arc{Center: r2.Vec{X: 50, Y: 50}, Radius: 40, Start: 0, End: 360, Stroke: "#FFF", LineWidth: 1},
		chart.Glyph{At: r2.Vec{X: 50, Y: 50}, ID: chart.BodyGlyph(zodiac.Mars), Color: "#F00"},
		chart.Glyph{At: r2.Vec{X: 60, Y: 50}, ID: chart.GlyphRetrograde, Color: "#F00", Align: chart.AlignLeft},
	}, FontGlyphs())

	if r := c.Rune(25, 12); r != 'E' {
		t.Errorf("centre glyph = %q, want E", r)
	}
	if r := c.Rune(30, 12); r != 'R' {
		t.Errorf("left-aligned glyph = %q, want R", r)
	}
	// rightmost point of the ring
	if r := c.Rune(45, 12); r != '·' {
		t.Errorf("ring point = %q, want dot", r)
	}
	if !strings.Contains(c.Plain(), "E") {
		t.Error("Plain lost the glyph")
	}
	if cols, rows := c.Size(); cols != 50 || rows != 25 {
		t.Errorf("Size = %dx%d", cols, rows)
	}
}

func TestCanvasFullChart(t *testing.T) {
	ch := testChart(t)
	c := NewCanvas(80, 40, ch.Dimensions)
	c.Paint(ch.Primitives, UnicodeGlyphs())
	plain := c.Plain()
	if strings.Count(plain, "\n") != 39 {
		t.Errorf("rows = %d, want 40", strings.Count(plain, "\n")+1)
	}
	if !strings.Contains(plain, "☉") {
		t.Error("Sun missing from canvas")
	}
	if c.String() == "" {
		t.Error("String() empty")
	}
}

func TestExportJSON(t *testing.T) {
	ch := testChart(t)
	export := ExportChart(ch, UnicodeGlyphs(), true)

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	planets, ok := decoded["planets"].([]any)
	if !ok || len(planets) != zodiac.NumBodies {
		t.Fatalf("planets = %v", decoded["planets"])
	}
	sun := planets[0].(map[string]any)
	if sun["body"] != "Sun" || sun["sign"] != "Capricorn" {
		t.Errorf("sun = %v", sun)
	}
	prims := decoded["primitives"].([]any)
	if len(prims) != len(ch.Primitives) {
		t.Errorf("primitives = %d, want %d", len(prims), len(ch.Primitives))
	}
	if first := prims[0].(map[string]any); first["kind"] != "fill" {
		t.Errorf("first primitive = %v", first)
	}
}

func TestExportWithoutPrimitives(t *testing.T) {
	export := ExportChart(testChart(t), UnicodeGlyphs(), false)
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"primitives"`) {
		t.Error("primitives exported when not requested")
	}
}

func TestExportMsgpack(t *testing.T) {
	ch := testChart(t)
	export := ExportChart(ch, FontGlyphs(), true)

	var buf bytes.Buffer
	if err := export.WriteMsgpack(&buf); err != nil {
		t.Fatalf("WriteMsgpack: %v", err)
	}

	var decoded ChartExport
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if math.Abs(decoded.JulianDay-ch.JulianDay) > 1e-9 {
		t.Errorf("JulianDay = %v, want %v", decoded.JulianDay, ch.JulianDay)
	}
	if len(decoded.Primitives) != len(ch.Primitives) {
		t.Errorf("primitives = %d, want %d", len(decoded.Primitives), len(ch.Primitives))
	}
	if decoded.Planets[zodiac.Moon].Body != "Moon" {
		t.Errorf("planet 1 = %v", decoded.Planets[zodiac.Moon])
	}
}

func TestFitViewport(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		size, radi float64
	}{
		{"large window", 1000, 800, 600, 250},
		{"square window", 700, 700, 490, 195},
		{"narrow and tall", 300, 1000, 280, 90},
		{"tiny", 200, 200, 102, 1},
		{"slim", 105, 1000, 102, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FitViewport(tt.w, tt.h)
			if d.Width != tt.size || d.Height != tt.size || d.Radius != tt.radi {
				t.Errorf("FitViewport(%v, %v) = %+v, want %v radius %v", tt.w, tt.h, d, tt.size, tt.radi)
			}
			if err := d.Validate(); err != nil {
				t.Errorf("invalid dimensions: %v", err)
			}
		})
	}
}

func TestWriteSummary(t *testing.T) {
	ch := testChart(t)
	var buf bytes.Buffer
	WriteSummary(&buf, ch)
	out := buf.String()

	for _, want := range []string{"Natal chart @ 2000-01-01T12:00:00Z", "19.92°S 43.93°W", "Sun", "Saturn", "1 ASC", "10 MC", "Part of Fortune"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
