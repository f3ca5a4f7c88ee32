package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/zodiac"
)

const (
	// MinYear and MaxYear bound the dates the local ephemeris accepts.
	MinYear = -3000
	MaxYear = 3000

	// speedStep is the half-width in days of the central difference
	// used for daily motion.
	speedStep = 0.5
)

// MeeusProvider computes positions locally from the algorithms in
// Meeus' "Astronomical Algorithms". It keeps no state and is safe for
// concurrent use. Dynamical time is taken equal to UT.
type MeeusProvider struct{}

// NewMeeusProvider creates a local ephemeris provider.
func NewMeeusProvider() *MeeusProvider {
	return &MeeusProvider{}
}

// Name implements Provider.
func (p *MeeusProvider) Name() string {
	return "Meeus"
}

// JulianDay implements Provider.
func (p *MeeusProvider) JulianDay(t time.Time) (float64, error) {
	if t.IsZero() {
		return 0, fmt.Errorf("%w: zero time", ErrInvalidDate)
	}
	t = t.UTC()
	if y := t.Year(); y < MinYear || y > MaxYear {
		return 0, fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidDate, y, MinYear, MaxYear)
	}
	return julian.TimeToJD(t), nil
}

// Houses implements Provider. Only Placidus is supported.
func (p *MeeusProvider) Houses(jd float64, obs astro.Observer, sys HouseSystem) ([12]float64, error) {
	var cusps [12]float64
	if sys != Placidus {
		return cusps, fmt.Errorf("%w: %v", ErrUnsupportedHouseSystem, sys)
	}
	if err := obs.Validate(); err != nil {
		return cusps, fmt.Errorf("%w: %v", ErrHouseComputation, err)
	}
	if !isFinite(jd) {
		return cusps, fmt.Errorf("%w: julian day %v", ErrInvalidDate, jd)
	}

	ramc := astro.NormalizeDegrees(sidereal.Apparent(jd).Angle().Deg() + obs.LonDeg)
	return placidusCusps(ramc, trueObliquity(jd), obs.LatDeg)
}

// BodyPosition implements Provider.
func (p *MeeusProvider) BodyPosition(jd float64, body zodiac.Body) (BodyPosition, error) {
	if !body.Valid() {
		return BodyPosition{}, fmt.Errorf("%w: %d", zodiac.ErrUnknownBody, int(body))
	}
	if !isFinite(jd) {
		return BodyPosition{}, fmt.Errorf("%w: julian day %v", ErrInvalidDate, jd)
	}

	lon := p.longitude(jd, body)
	before := p.longitude(jd-speedStep, body)
	after := p.longitude(jd+speedStep, body)

	return BodyPosition{
		Longitude: lon,
		Speed:     astro.SignedDelta(before, after) / (2 * speedStep),
	}, nil
}

// longitude returns the apparent geocentric longitude of date.
func (p *MeeusProvider) longitude(jd float64, body zodiac.Body) float64 {
	switch body {
	case zodiac.Sun:
		return astro.NormalizeDegrees(solar.ApparentLongitude(base.J2000Century(jd)).Deg())
	case zodiac.Moon:
		lon, _, _ := moonposition.Position(jd)
		dpsi, _ := nutation.Nutation(jd)
		return astro.NormalizeDegrees(lon.Deg() + dpsi.Deg())
	default:
		return planetLongitude(jd, body)
	}
}

// trueObliquity returns the obliquity of the ecliptic including nutation.
func trueObliquity(jd float64) float64 {
	_, deps := nutation.Nutation(jd)
	return nutation.MeanObliquity(jd).Deg() + deps.Deg()
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
