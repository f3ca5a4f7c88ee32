// Package ephem provides ephemeris data for natal chart bodies and houses.
package ephem

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/zodiac"
)

var (
	// ErrInvalidDate is returned for dates a provider cannot represent.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnsupportedHouseSystem is returned for house systems a provider lacks.
	ErrUnsupportedHouseSystem = errors.New("unsupported house system")
	// ErrHouseComputation is returned when cusps cannot be computed, as
	// happens for Placidus above the polar circles.
	ErrHouseComputation = errors.New("house computation failed")
)

// HouseSystem is a single-letter house system code.
type HouseSystem byte

const (
	Placidus      HouseSystem = 'P'
	Regiomontanus HouseSystem = 'R'
)

// String returns the house system name.
func (h HouseSystem) String() string {
	switch h {
	case Placidus:
		return "Placidus"
	case Regiomontanus:
		return "Regiomontanus"
	default:
		return fmt.Sprintf("HouseSystem(%q)", byte(h))
	}
}

// BodyPosition is a geocentric ecliptic longitude with its daily motion.
type BodyPosition struct {
	Longitude float64 // degrees, equinox of date
	Speed     float64 // degrees per day, negative when retrograde
}

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// JulianDay converts a UTC instant to a Julian day number.
	JulianDay(t time.Time) (float64, error)

	// Houses returns the 12 house cusps; index 0 is the Ascendant and
	// index 9 the Midheaven.
	Houses(jd float64, obs astro.Observer, sys HouseSystem) ([12]float64, error)

	// BodyPosition returns the position and speed of a body.
	BodyPosition(jd float64, body zodiac.Body) (BodyPosition, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeMeeus    Mode = iota // Local analytic ephemeris (default)
	ModeHorizons             // Use JPL Horizons for body positions
	ModeAuto                 // Try Horizons, fall back to local
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMeeus:
		return "meeus"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) Mode {
	switch s {
	case "meeus", "local":
		return ModeMeeus
	case "horizons":
		return ModeHorizons
	case "auto":
		return ModeAuto
	default:
		return ModeMeeus
	}
}

// NewProvider builds the provider for a mode. horizonsURL may be empty
// to use the public endpoint.
func NewProvider(mode Mode, horizonsURL string, log *logging.Logger) Provider {
	local := NewMeeusProvider()
	switch mode {
	case ModeHorizons:
		return NewHorizonsProvider(horizonsURL, local)
	case ModeAuto:
		return NewFallbackProvider(NewHorizonsProvider(horizonsURL, local), local, log)
	default:
		return local
	}
}

// FallbackProvider asks a primary provider first and a secondary one
// when the primary fails.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	log       *logging.Logger
}

// NewFallbackProvider wraps two providers.
func NewFallbackProvider(primary, secondary Provider, log *logging.Logger) *FallbackProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, log: log}
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.secondary.Name()
}

// JulianDay implements Provider.
func (p *FallbackProvider) JulianDay(t time.Time) (float64, error) {
	jd, err := p.primary.JulianDay(t)
	if err == nil {
		return jd, nil
	}
	if errors.Is(err, ErrInvalidDate) {
		return 0, err
	}
	p.log.Warn("%s julian day failed, using %s: %v", p.primary.Name(), p.secondary.Name(), err)
	return p.secondary.JulianDay(t)
}

// Houses implements Provider.
func (p *FallbackProvider) Houses(jd float64, obs astro.Observer, sys HouseSystem) ([12]float64, error) {
	cusps, err := p.primary.Houses(jd, obs, sys)
	if err == nil {
		return cusps, nil
	}
	if errors.Is(err, ErrHouseComputation) || errors.Is(err, ErrUnsupportedHouseSystem) {
		return cusps, err
	}
	p.log.Warn("%s houses failed, using %s: %v", p.primary.Name(), p.secondary.Name(), err)
	return p.secondary.Houses(jd, obs, sys)
}

// BodyPosition implements Provider.
func (p *FallbackProvider) BodyPosition(jd float64, body zodiac.Body) (BodyPosition, error) {
	pos, err := p.primary.BodyPosition(jd, body)
	if err == nil {
		return pos, nil
	}
	p.log.Warn("%s position for %s failed, using %s: %v", p.primary.Name(), body, p.secondary.Name(), err)
	return p.secondary.BodyPosition(jd, body)
}
