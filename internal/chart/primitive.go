package chart

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-natal/internal/zodiac"
)

// Primitive is one drawing instruction. Later primitives paint over
// earlier ones.
type Primitive interface {
	primitive()
}

// Fill paints the whole canvas.
type Fill struct {
	Width, Height float64
	Color         Color
}

// Arc strokes a circular arc. Angles are screen degrees, clockwise.
type Arc struct {
	Center     r2.Vec
	Radius     float64
	Start, End float64
	Stroke     Color
	LineWidth  float64
}

// Line strokes a straight segment.
type Line struct {
	From, To  r2.Vec
	Color     Color
	LineWidth float64
}

// Glyph places a symbol whose face is chosen by the rasterizer.
type Glyph struct {
	At    r2.Vec
	ID    GlyphID
	Color Color
	Size  FontSize
	Align Align
}

func (Fill) primitive()  {}
func (Arc) primitive()   {}
func (Line) primitive()  {}
func (Glyph) primitive() {}

// GlyphID names a symbol: "body:<name>", "sign:<name>", "pof" or
// "retrograde".
type GlyphID string

const (
	GlyphPartOfFortune GlyphID = "pof"
	GlyphRetrograde    GlyphID = "retrograde"
)

// BodyGlyph returns the glyph id of a body.
func BodyGlyph(b zodiac.Body) GlyphID {
	return GlyphID("body:" + b.Key())
}

// SignGlyph returns the glyph id of a sign.
func SignGlyph(s zodiac.Sign) GlyphID {
	return GlyphID("sign:" + s.Key())
}

// FontSize is a symbolic font size class.
type FontSize int

const (
	SizeSmall  FontSize = iota // retrograde marker
	SizeMedium                 // signs, Part of Fortune
	SizeLarge                  // bodies
)

func (s FontSize) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Align is the horizontal anchor of a glyph.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
)

func (a Align) String() string {
	if a == AlignLeft {
		return "left"
	}
	return "center"
}
