package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Project converts a polar position around center into screen coordinates.
// Screen angles grow clockwise on a y-down canvas: 0° is 3 o'clock,
// 90° is 6 o'clock and 180° is 9 o'clock.
func Project(center r2.Vec, radius, screenAngleDeg float64) r2.Vec {
	rad := DegToRad(screenAngleDeg)
	return r2.Vec{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}

// ToScreenAngle rotates an ecliptic longitude into a screen angle.
// The result is deliberately left unnormalized; only Project consumes it.
func ToScreenAngle(eclipticLon, angleOffset float64) float64 {
	return angleOffset - eclipticLon
}

// AngleOffset is the rotation that puts the Ascendant on the left horizon.
func AngleOffset(ascendant float64) float64 {
	return 180 + ascendant
}

// ClampSegment shortens the segment from→to to at most maxLen, keeping
// its start and direction.
func ClampSegment(from, to r2.Vec, maxLen float64) r2.Vec {
	d := r2.Sub(to, from)
	n := r2.Norm(d)
	if n <= maxLen || n == 0 {
		return to
	}
	return r2.Add(from, r2.Scale(maxLen/n, d))
}
