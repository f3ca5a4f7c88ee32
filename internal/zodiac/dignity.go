package zodiac

// Dignity is the essential dignity of a body in a sign.
type Dignity int

const (
	None Dignity = iota
	Domicile
	Detriment
	Exaltation
	Fall
)

// String returns the dignity name.
func (d Dignity) String() string {
	switch d {
	case None:
		return "none"
	case Domicile:
		return "domicile"
	case Detriment:
		return "detriment"
	case Exaltation:
		return "exaltation"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// dignities is indexed [body][sign]. Zero values are None.
var dignities = func() [NumBodies][NumSigns]Dignity {
	var t [NumBodies][NumSigns]Dignity
	set := func(b Body, d Dignity, signs ...Sign) {
		for _, s := range signs {
			t[b][s] = d
		}
	}

	set(Sun, Domicile, Leo)
	set(Sun, Exaltation, Aries)
	set(Sun, Detriment, Aquarius)
	set(Sun, Fall, Libra)

	set(Moon, Domicile, Cancer)
	set(Moon, Exaltation, Taurus)
	set(Moon, Detriment, Capricorn)
	set(Moon, Fall, Scorpio)

	set(Mercury, Domicile, Gemini, Virgo)
	set(Mercury, Detriment, Sagittarius, Pisces)

	set(Venus, Domicile, Taurus, Libra)
	set(Venus, Exaltation, Pisces)
	set(Venus, Detriment, Scorpio, Aries)
	set(Venus, Fall, Virgo)

	set(Mars, Domicile, Aries, Scorpio)
	set(Mars, Exaltation, Capricorn)
	set(Mars, Detriment, Libra, Taurus)
	set(Mars, Fall, Cancer)

	set(Jupiter, Domicile, Sagittarius, Pisces)
	set(Jupiter, Exaltation, Cancer)
	set(Jupiter, Detriment, Gemini, Virgo)
	set(Jupiter, Fall, Capricorn)

	set(Saturn, Domicile, Capricorn, Aquarius)
	set(Saturn, Exaltation, Libra)
	set(Saturn, Detriment, Cancer, Leo)
	set(Saturn, Fall, Aries)
	return t
}()

// DignityIn returns the dignity of a body in a sign.
func DignityIn(b Body, s Sign) (Dignity, error) {
	if !b.Valid() {
		return None, ErrUnknownBody
	}
	return dignities[b][s], nil
}

// Classify returns the dignity of a body at an ecliptic longitude.
func Classify(b Body, lon float64) (Dignity, error) {
	if !b.Valid() {
		return None, ErrUnknownBody
	}
	s, err := SignOf(lon)
	if err != nil {
		return None, err
	}
	return dignities[b][s], nil
}
