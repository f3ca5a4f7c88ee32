// Package astro provides astronomical coordinate helpers and chart geometry.
package astro

import (
	"fmt"
	"math"
)

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	Name   string  // Optional name for the site
}

// Validate reports whether the observer lies on the globe.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || math.IsInf(o.LatDeg, 0) || o.LatDeg < -90 || o.LatDeg > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", o.LatDeg)
	}
	if math.IsNaN(o.LonDeg) || math.IsInf(o.LonDeg, 0) || o.LonDeg < -180 || o.LonDeg > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", o.LonDeg)
	}
	return nil
}

// String formats the observer as "19.92°S 43.93°W".
func (o Observer) String() string {
	ns, ew := "N", "E"
	if o.LatDeg < 0 {
		ns = "S"
	}
	if o.LonDeg < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", math.Abs(o.LatDeg), ns, math.Abs(o.LonDeg), ew)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees wraps an angle into [0, 360). Angles already in
// range come back unchanged.
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 rounds up to 360
	if a >= 360 {
		a = 0
	}
	return a
}

// SignedDelta returns b-a wrapped into (-180, 180].
func SignedDelta(a, b float64) float64 {
	d := NormalizeDegrees(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}
