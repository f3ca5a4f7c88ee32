package ephem

import (
	"fmt"
	"math"

	"github.com/litescript/ls-natal/internal/astro"
)

const (
	placidusMaxIter   = 100
	placidusTolerance = 1e-9
)

// placidusCusps computes house cusps from the right ascension of the
// Midheaven, the obliquity and the geographic latitude, all in degrees.
func placidusCusps(ramc, obliquity, lat float64) ([12]float64, error) {
	var cusps [12]float64
	if math.Abs(lat) >= 90 {
		return cusps, fmt.Errorf("%w: latitude %v at a pole", ErrHouseComputation, lat)
	}

	eps := astro.DegToRad(obliquity)
	phi := astro.DegToRad(lat)
	theta := astro.DegToRad(ramc)

	mc := eclipticFromRA(ramc, obliquity)
	asc := astro.NormalizeDegrees(astro.RadToDeg(math.Atan2(
		math.Cos(theta),
		-(math.Sin(theta)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)),
	)))

	// Houses 11 and 12 trisect the diurnal semi-arc above the MC,
	// houses 2 and 3 the nocturnal semi-arc below the IC.
	c11, err := placidusCusp(ramc, obliquity, phi, func(dsa float64) float64 { return ramc + dsa/3 })
	if err != nil {
		return cusps, err
	}
	c12, err := placidusCusp(ramc, obliquity, phi, func(dsa float64) float64 { return ramc + 2*dsa/3 })
	if err != nil {
		return cusps, err
	}
	c2, err := placidusCusp(ramc, obliquity, phi, func(dsa float64) float64 { return ramc + 180 - 2*(180-dsa)/3 })
	if err != nil {
		return cusps, err
	}
	c3, err := placidusCusp(ramc, obliquity, phi, func(dsa float64) float64 { return ramc + 180 - (180-dsa)/3 })
	if err != nil {
		return cusps, err
	}

	cusps[0] = asc
	cusps[1] = c2
	cusps[2] = c3
	cusps[3] = mc + 180
	cusps[4] = c11 + 180
	cusps[5] = c12 + 180
	cusps[6] = asc + 180
	cusps[7] = c2 + 180
	cusps[8] = c3 + 180
	cusps[9] = mc
	cusps[10] = c11
	cusps[11] = c12
	for i := range cusps {
		cusps[i] = astro.NormalizeDegrees(cusps[i])
	}
	return cusps, nil
}

// placidusCusp iterates the right ascension of a cusp until the
// semi-arc of the ecliptic point it lands on is self-consistent.
// raFor maps a diurnal semi-arc to the cusp's right ascension.
func placidusCusp(ramc, obliquity, phi float64, raFor func(dsa float64) float64) (float64, error) {
	eps := astro.DegToRad(obliquity)
	ra := raFor(90)
	for i := 0; i < placidusMaxIter; i++ {
		tanDec := math.Tan(eps) * math.Sin(astro.DegToRad(ra))
		x := -math.Tan(phi) * tanDec
		if x < -1 || x > 1 {
			return 0, fmt.Errorf("%w: point never crosses the horizon at latitude %.2f",
				ErrHouseComputation, astro.RadToDeg(phi))
		}
		next := raFor(astro.RadToDeg(math.Acos(x)))
		if math.Abs(next-ra) < placidusTolerance {
			return eclipticFromRA(next, obliquity), nil
		}
		ra = next
	}
	return 0, fmt.Errorf("%w: cusp did not converge in %d iterations at latitude %.2f",
		ErrHouseComputation, placidusMaxIter, astro.RadToDeg(phi))
}

// eclipticFromRA returns the longitude of the ecliptic point with the
// given right ascension.
func eclipticFromRA(ra, obliquity float64) float64 {
	a := astro.DegToRad(ra)
	return astro.NormalizeDegrees(astro.RadToDeg(math.Atan2(math.Sin(a), math.Cos(a)*math.Cos(astro.DegToRad(obliquity)))))
}
