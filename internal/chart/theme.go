package chart

import "github.com/litescript/ls-natal/internal/zodiac"

// Color is an opaque colour token, usually a CSS hex string.
type Color string

// Fixed colours not covered by a Theme.
const (
	ConnectorColor     Color = "#00CCFF"
	PartOfFortuneColor Color = "#FF00FF"
)

// DignityColors maps each dignity to a colour.
type DignityColors struct {
	None       Color
	Domicile   Color
	Detriment  Color
	Exaltation Color
	Fall       Color
}

// For returns the colour of a dignity.
func (d DignityColors) For(dig zodiac.Dignity) Color {
	switch dig {
	case zodiac.Domicile:
		return d.Domicile
	case zodiac.Detriment:
		return d.Detriment
	case zodiac.Exaltation:
		return d.Exaltation
	case zodiac.Fall:
		return d.Fall
	default:
		return d.None
	}
}

// Theme is the palette a chart is drawn with.
type Theme struct {
	Background Color
	Stroke     Color
	Signs      Color
	Dignities  DignityColors
}

// DefaultTheme returns the stock dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background: "#1C1C1C",
		Stroke:     "#FFF",
		Signs:      "#FFF",
		Dignities: DignityColors{
			None:       "#00CCFF",
			Domicile:   "#00FF00",
			Detriment:  "#FF0000",
			Exaltation: "#FFFF00",
			Fall:       "#CD5C5C",
		},
	}
}

// AspectColor returns the line colour of an aspect.
func AspectColor(k zodiac.AspectKind) Color {
	switch k {
	case zodiac.Conjunction:
		return "#FFFF00"
	case zodiac.Sextile:
		return "#00FFFF"
	case zodiac.Square:
		return "#FF0000"
	case zodiac.Trine:
		return "#00FF00"
	case zodiac.Opposition:
		return "#FF00FF"
	default:
		return "#FFFFFF"
	}
}
