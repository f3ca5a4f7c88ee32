package zodiac

import "math"

// Orb is the tolerance in degrees around each aspect angle.
const Orb = 5.0

// AspectKind is a classical aspect.
type AspectKind int

const (
	Conjunction AspectKind = iota
	Sextile
	Square
	Trine
	Opposition
)

// String returns the aspect name.
func (k AspectKind) String() string {
	switch k {
	case Conjunction:
		return "conjunction"
	case Sextile:
		return "sextile"
	case Square:
		return "square"
	case Trine:
		return "trine"
	case Opposition:
		return "opposition"
	default:
		return "unknown"
	}
}

// Placement is a body position as seen by the aspect detector.
type Placement struct {
	Longitude   float64 // ecliptic longitude, degrees
	ScreenAngle float64 // rotated screen angle, degrees, unnormalized
}

type aspectRule struct {
	kind    AspectKind
	modulus int
	targets []float64
}

// Checked in order; the first match wins.
var aspectRules = []aspectRule{
	{Sextile, 2, []float64{60, 300}},
	{Square, 3, []float64{90, 270}},
	{Trine, 4, []float64{120, 240}},
	{Opposition, 6, []float64{180}},
}

// DetectAspect classifies the angular relation between two placements.
// The separation is taken from the screen angles. The sign-difference
// tests use Go's truncating remainder on the signed difference.
func DetectAspect(a, b Placement) (AspectKind, bool) {
	angle := math.Abs(a.ScreenAngle - b.ScreenAngle)
	signA := int(math.Floor(a.Longitude / 30))
	signB := int(math.Floor(b.Longitude / 30))
	diff := signA - signB

	if signA == signB && angle < Orb {
		return Conjunction, true
	}
	for _, r := range aspectRules {
		if diff%r.modulus != 0 {
			continue
		}
		for _, target := range r.targets {
			if angle > target-Orb && angle < target+Orb {
				return r.kind, true
			}
		}
	}
	return 0, false
}
