// Package render paints chart primitives onto concrete surfaces: SVG
// documents, terminal cell grids and wire formats.
package render

import (
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// GlyphSet maps glyph ids to the text drawn for them.
type GlyphSet struct {
	Name       string
	FontFamily string // empty means the surface default
	glyphs     map[chart.GlyphID]string
}

// Lookup returns the text for a glyph, falling back to its id.
func (g GlyphSet) Lookup(id chart.GlyphID) string {
	if s, ok := g.glyphs[id]; ok {
		return s
	}
	return string(id)
}

var (
	unicodeBodies = [zodiac.NumBodies]string{"☉", "☽", "☿", "♀", "♂", "♃", "♄"}
	unicodeSigns  = [zodiac.NumSigns]string{"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓"}
)

// UnicodeGlyphs returns the astrological symbols from the Unicode
// Miscellaneous Symbols block.
func UnicodeGlyphs() GlyphSet {
	m := make(map[chart.GlyphID]string, zodiac.NumBodies+zodiac.NumSigns+2)
	for _, b := range zodiac.Bodies() {
		m[chart.BodyGlyph(b)] = unicodeBodies[b]
	}
	for _, s := range zodiac.Signs() {
		m[chart.SignGlyph(s)] = unicodeSigns[s]
	}
	m[chart.GlyphPartOfFortune] = "⊗"
	m[chart.GlyphRetrograde] = "℞"
	return GlyphSet{Name: "unicode", glyphs: m}
}

// FontGlyphs returns the letter mapping of astrology symbol fonts:
// bodies A to G, signs a to l, the Part of Fortune O.
func FontGlyphs() GlyphSet {
	m := make(map[chart.GlyphID]string, zodiac.NumBodies+zodiac.NumSigns+2)
	for _, b := range zodiac.Bodies() {
		m[chart.BodyGlyph(b)] = string(rune('A' + int(b)))
	}
	for _, s := range zodiac.Signs() {
		m[chart.SignGlyph(s)] = string(rune('a' + int(s)))
	}
	m[chart.GlyphPartOfFortune] = "O"
	m[chart.GlyphRetrograde] = "R"
	return GlyphSet{Name: "font", FontFamily: "AstroDotBasic", glyphs: m}
}

// ParseGlyphSet returns the named glyph set, defaulting to Unicode.
func ParseGlyphSet(name string) GlyphSet {
	if name == "font" {
		return FontGlyphs()
	}
	return UnicodeGlyphs()
}
