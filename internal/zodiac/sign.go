package zodiac

import (
	"fmt"
	"math"
	"strings"
)

// Sign is one of the twelve 30° sectors of the tropical zodiac.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// NumSigns is the number of zodiac signs.
const NumSigns = 12

var signNames = [NumSigns]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signAbbrev = [NumSigns]string{
	"Ari", "Tau", "Gem", "Can", "Leo", "Vir",
	"Lib", "Sco", "Sag", "Cap", "Aqu", "Pis",
}

// Signs returns the signs in ecliptic order starting at Aries.
func Signs() [NumSigns]Sign {
	var s [NumSigns]Sign
	for i := range s {
		s[i] = Sign(i)
	}
	return s
}

// String returns the sign name.
func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return "unknown"
	}
	return signNames[s]
}

// Abbrev returns the three-letter abbreviation.
func (s Sign) Abbrev() string {
	if s < Aries || s > Pisces {
		return "???"
	}
	return signAbbrev[s]
}

// Key returns the lowercase identifier used in glyph ids.
func (s Sign) Key() string {
	return strings.ToLower(s.String())
}

// SignOf returns the sign containing an ecliptic longitude. The longitude
// is wrapped into [0,360) first.
func SignOf(lon float64) (Sign, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, ErrNonFinite
	}
	lon = math.Mod(math.Mod(lon, 360)+360, 360)
	return Sign(int(math.Floor(lon/30)) % NumSigns), nil
}

// FormatLongitude renders a longitude as "12°34' Leo".
func FormatLongitude(lon float64) string {
	s, err := SignOf(lon)
	if err != nil {
		return "--"
	}
	lon = math.Mod(math.Mod(lon, 360)+360, 360)
	within := lon - float64(s)*30
	deg := math.Floor(within)
	mins := math.Floor((within - deg) * 60)
	return fmt.Sprintf("%2.0f°%02.0f' %s", deg, mins, s.Abbrev())
}
