package ephem

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// keplerPlaces is the precision, in decimal places of radians, asked of
// the iterative Kepler solver.
const keplerPlaces = 10

var meanElementPlanets = map[zodiac.Body]int{
	zodiac.Mercury: planetelements.Mercury,
	zodiac.Venus:   planetelements.Venus,
	zodiac.Mars:    planetelements.Mars,
	zodiac.Jupiter: planetelements.Jupiter,
	zodiac.Saturn:  planetelements.Saturn,
}

// planetLongitude returns the geocentric ecliptic longitude of date for
// Mercury through Saturn, from the mean elements of Meeus table 31.A.
// Light time, aberration and perturbations are ignored.
func planetLongitude(jd float64, body zodiac.Body) float64 {
	var el planetelements.Elements
	planetelements.Mean(meanElementPlanets[body], jd, &el)

	geo := heliocentric(&el).Sub(earthHeliocentric(jd))
	dpsi, _ := nutation.Nutation(jd)
	return astro.NormalizeDegrees(astro.EclipticLongitude(geo) + dpsi.Deg())
}

// heliocentric returns the ecliptic position in AU, mean equinox of date.
func heliocentric(el *planetelements.Elements) astro.Vec3 {
	e := eccentricAnomaly(el.Ecc, el.Lon-el.Peri)
	r := kepler.Radius(e, el.Ecc, el.Axis)
	u := el.Peri - el.Node + kepler.True(e, el.Ecc)

	su, cu := u.Sincos()
	sn, cn := el.Node.Sincos()
	si, ci := el.Inc.Sincos()
	return astro.Vec3{
		X: r * (cn*cu - sn*su*ci),
		Y: r * (sn*cu + cn*su*ci),
		Z: r * su * si,
	}
}

// eccentricAnomaly solves Kepler's equation, falling back to binary
// search when Newton iteration does not settle.
func eccentricAnomaly(ecc float64, m unit.Angle) unit.Angle {
	m = unit.Angle(math.Remainder(m.Rad(), 2*math.Pi))
	if e, err := kepler.Kepler2(ecc, m, keplerPlaces); err == nil {
		return e
	}
	return kepler.Kepler3(ecc, m)
}

// earthHeliocentric places the Earth opposite the geometric Sun. The
// table 31.A Earth row has no node, so it cannot go through Mean.
func earthHeliocentric(jd float64) astro.Vec3 {
	t := base.J2000Century(jd)
	s, _ := solar.True(t)
	ss, cs := (s + math.Pi).Sincos()
	r := solar.Radius(t)
	return astro.Vec3{X: r * cs, Y: r * ss}
}
