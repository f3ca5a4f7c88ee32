// Package zodiac holds the static tables of a tropical natal chart: the
// classical bodies, the twelve signs, essential dignities and aspects.
package zodiac

import (
	"errors"
	"strings"
)

var (
	// ErrNonFinite is returned when a longitude is NaN or infinite.
	ErrNonFinite = errors.New("non-finite longitude")
	// ErrUnknownBody is returned for a Body outside the classical seven.
	ErrUnknownBody = errors.New("unknown body")
)

// Body is one of the seven classical bodies, in chart order.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
)

// NumBodies is the number of classical bodies.
const NumBodies = 7

var bodyNames = [NumBodies]string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"}

// Bodies returns the bodies in drawing and aspect-enumeration order.
func Bodies() [NumBodies]Body {
	return [NumBodies]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}
}

// Valid reports whether b is one of the classical bodies.
func (b Body) Valid() bool {
	return b >= Sun && b <= Saturn
}

// String returns the body name.
func (b Body) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return bodyNames[b]
}

// Key returns the lowercase identifier used in glyph ids and wire formats.
func (b Body) Key() string {
	return strings.ToLower(b.String())
}

// ParseBody looks up a body by name, case-insensitively.
func ParseBody(s string) (Body, error) {
	for i, name := range bodyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Body(i), nil
		}
	}
	return 0, ErrUnknownBody
}
