// Package chart turns ephemeris output into a natal wheel: resolved
// positions, aspects and an ordered stream of drawing primitives.
package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// Request is the moment and place a chart is cast for.
type Request struct {
	Time     time.Time
	Observer astro.Observer
}

// HouseCusps holds the 12 cusp longitudes. Index 0 is the Ascendant and
// index 9 the Midheaven.
type HouseCusps [12]float64

// Ascendant returns cusp 1.
func (h HouseCusps) Ascendant() float64 { return h[0] }

// Midheaven returns cusp 10.
func (h HouseCusps) Midheaven() float64 { return h[9] }

// PlanetPosition is a resolved body.
type PlanetPosition struct {
	Body      zodiac.Body
	Longitude float64 // [0, 360)
	Speed     float64 // degrees per day
}

// Retrograde reports apparent backward motion.
func (p PlanetPosition) Retrograde() bool {
	return p.Speed < 0
}

// Resolved holds every quantity derived from the ephemeris for one chart.
type Resolved struct {
	Request       Request
	JulianDay     float64
	Houses        HouseCusps
	Planets       [zodiac.NumBodies]PlanetPosition
	AngleOffset   float64
	PartOfFortune float64
	DayChart      bool
}

// ScreenAngle rotates an ecliptic longitude into this chart's frame.
func (r Resolved) ScreenAngle(lon float64) float64 {
	return astro.ToScreenAngle(lon, r.AngleOffset)
}

// Placement returns the aspect-detector view of a body.
func (r Resolved) Placement(b zodiac.Body) zodiac.Placement {
	lon := r.Planets[b].Longitude
	return zodiac.Placement{Longitude: lon, ScreenAngle: r.ScreenAngle(lon)}
}

// Resolver queries a provider for everything a chart needs.
type Resolver struct {
	provider ephem.Provider
}

// NewResolver creates a resolver backed by p.
func NewResolver(p ephem.Provider) *Resolver {
	return &Resolver{provider: p}
}

// Resolve computes houses, body positions, the angle offset and the Part
// of Fortune. Any failure aborts the whole resolution.
func (r *Resolver) Resolve(req Request) (Resolved, error) {
	if err := req.Observer.Validate(); err != nil {
		return Resolved{}, &Error{Kind: KindInvalidLocation, Step: StepLocation, Err: err}
	}

	jd, err := r.provider.JulianDay(req.Time.UTC())
	if err != nil {
		kind := KindEphemerisFailure
		if errors.Is(err, ephem.ErrInvalidDate) {
			kind = KindInvalidDate
		}
		return Resolved{}, &Error{Kind: kind, Step: StepJulianDay, Err: err}
	}

	raw, err := r.provider.Houses(jd, req.Observer, ephem.Placidus)
	if err != nil {
		return Resolved{}, &Error{Kind: KindEphemerisFailure, Step: StepHouses, Err: err}
	}
	var houses HouseCusps
	for i, c := range raw {
		if !finite(c) {
			return Resolved{}, &Error{
				Kind: KindDegenerateGeometry,
				Step: StepHouses,
				Err:  fmt.Errorf("cusp %d is %v", i+1, c),
			}
		}
		houses[i] = astro.NormalizeDegrees(c)
	}

	res := Resolved{
		Request:     req,
		JulianDay:   jd,
		Houses:      houses,
		AngleOffset: astro.AngleOffset(houses[0]),
	}

	for _, b := range zodiac.Bodies() {
		pos, err := r.provider.BodyPosition(jd, b)
		if err != nil {
			kind := KindEphemerisFailure
			if errors.Is(err, ephem.ErrInvalidDate) {
				kind = KindInvalidDate
			}
			return Resolved{}, &Error{Kind: kind, Step: StepBody, Body: b, Err: err}
		}
		if !finite(pos.Longitude) || !finite(pos.Speed) {
			return Resolved{}, &Error{
				Kind: KindDegenerateGeometry,
				Step: StepBody,
				Body: b,
				Err:  fmt.Errorf("%w: longitude %v speed %v", zodiac.ErrNonFinite, pos.Longitude, pos.Speed),
			}
		}
		res.Planets[b] = PlanetPosition{
			Body:      b,
			Longitude: astro.NormalizeDegrees(pos.Longitude),
			Speed:     pos.Speed,
		}
	}

	res.PartOfFortune, res.DayChart = PartOfFortune(
		houses[0],
		res.Planets[zodiac.Sun].Longitude,
		res.Planets[zodiac.Moon].Longitude,
	)
	return res, nil
}

// PartOfFortune returns the Part of Fortune and whether the chart is
// diurnal. By day it is Asc + Moon - Sun, by night Asc + Sun - Moon.
func PartOfFortune(asc, sun, moon float64) (float64, bool) {
	day := math.Mod(asc+180, 360) < math.Mod(sun+180, 360)
	var pof float64
	if day {
		pof = asc + moon - sun
	} else {
		pof = asc + sun - moon
	}
	return astro.NormalizeDegrees(pof), day
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
