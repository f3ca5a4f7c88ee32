package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// stubProvider serves fixed positions and fails where told to.
type stubProvider struct {
	houses   [12]float64
	bodies   map[zodiac.Body]ephem.BodyPosition
	jdErr    error
	houseErr error
	failOn   map[zodiac.Body]error
	asked    []zodiac.Body
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) JulianDay(t time.Time) (float64, error) {
	if s.jdErr != nil {
		return 0, s.jdErr
	}
	return 2451545, nil
}

func (s *stubProvider) Houses(jd float64, obs astro.Observer, sys ephem.HouseSystem) ([12]float64, error) {
	if sys != ephem.Placidus {
		return s.houses, ephem.ErrUnsupportedHouseSystem
	}
	return s.houses, s.houseErr
}

func (s *stubProvider) BodyPosition(jd float64, b zodiac.Body) (ephem.BodyPosition, error) {
	s.asked = append(s.asked, b)
	if err, ok := s.failOn[b]; ok {
		return ephem.BodyPosition{}, err
	}
	return s.bodies[b], nil
}

// evenChart is the reference scenario: houses every 30° from 0°,
// Sun at 120°, Moon at 0°, Venus retrograde.
func evenChart() *stubProvider {
	var houses [12]float64
	for i := range houses {
		houses[i] = float64(i) * 30
	}
	return &stubProvider{
		houses: houses,
		bodies: map[zodiac.Body]ephem.BodyPosition{
			zodiac.Sun:     {Longitude: 120, Speed: 1},
			zodiac.Moon:    {Longitude: 0, Speed: 13},
			zodiac.Mercury: {Longitude: 100, Speed: 1.2},
			zodiac.Venus:   {Longitude: 150, Speed: -0.5},
			zodiac.Mars:    {Longitude: 200, Speed: 0.6},
			zodiac.Jupiter: {Longitude: 250, Speed: 0.1},
			zodiac.Saturn:  {Longitude: 300, Speed: 0.05},
		},
	}
}

var (
	testRequest = Request{
		Time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Observer: astro.Observer{LatDeg: -19.92, LonDeg: -43.93},
	}
	testDims = Dimensions{Width: 600, Height: 600, Radius: 200}
)

func TestResolveScenario(t *testing.T) {
	res, err := NewResolver(evenChart()).Resolve(testRequest)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if res.AngleOffset != 180 {
		t.Errorf("AngleOffset = %v, want 180", res.AngleOffset)
	}
	if got := res.ScreenAngle(res.Planets[zodiac.Sun].Longitude); got != 60 {
		t.Errorf("Sun screen angle = %v, want 60", got)
	}
	if !res.DayChart {
		t.Error("DayChart = false, want true")
	}
	if res.PartOfFortune != 240 {
		t.Errorf("PartOfFortune = %v, want 240", res.PartOfFortune)
	}
	if !res.Planets[zodiac.Venus].Retrograde() || res.Planets[zodiac.Mars].Retrograde() {
		t.Error("retrograde flags wrong")
	}
	if res.Houses.Ascendant() != 0 || res.Houses.Midheaven() != 270 {
		t.Errorf("Asc/MC = %v/%v", res.Houses.Ascendant(), res.Houses.Midheaven())
	}
}

func TestResolveNormalizes(t *testing.T) {
	p := evenChart()
	p.houses[0] = -10
	p.bodies[zodiac.Moon] = ephem.BodyPosition{Longitude: 725, Speed: 12}

	res, err := NewResolver(p).Resolve(testRequest)
	if err != nil {
		t.Fatal(err)
	}
	if res.Houses[0] != 350 {
		t.Errorf("Asc = %v, want 350", res.Houses[0])
	}
	if res.AngleOffset != 530 {
		t.Errorf("AngleOffset = %v, want 530", res.AngleOffset)
	}
	if res.Planets[zodiac.Moon].Longitude != 5 {
		t.Errorf("Moon = %v, want 5", res.Planets[zodiac.Moon].Longitude)
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver(evenChart())
	a, errA := r.Resolve(testRequest)
	b, errB := r.Resolve(testRequest)
	if errA != nil || errB != nil {
		t.Fatal(errA, errB)
	}
	if a != b {
		t.Error("two resolutions of the same request differ")
	}
}

func TestPartOfFortune(t *testing.T) {
	tests := []struct {
		name           string
		asc, sun, moon float64
		want           float64
		wantDay        bool
	}{
		{"reference day chart", 0, 120, 0, 240, true},
		{"night chart", 0, 300, 10, 290, false},
		{"day chart wraps above 360", 350, 10, 300, 280, true},
		{"day chart wraps below 0", 10, 100, 5, 275, true},
		{"night chart wraps below 0", 10, 5, 100, 275, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, day := PartOfFortune(tt.asc, tt.sun, tt.moon)
			if math.Abs(got-tt.want) > 1e-9 || day != tt.wantDay {
				t.Errorf("PartOfFortune(%v, %v, %v) = %v, %v; want %v, %v",
					tt.asc, tt.sun, tt.moon, got, day, tt.want, tt.wantDay)
			}
		})
	}
}

func TestPartOfFortuneAlwaysNormalized(t *testing.T) {
	for asc := 0.0; asc < 360; asc += 23 {
		for sun := 0.0; sun < 360; sun += 29 {
			for moon := 0.0; moon < 360; moon += 31 {
				got, _ := PartOfFortune(asc, sun, moon)
				if got < 0 || got >= 360 {
					t.Fatalf("PartOfFortune(%v, %v, %v) = %v", asc, sun, moon, got)
				}
			}
		}
	}
}

func TestResolveBodyFailure(t *testing.T) {
	p := evenChart()
	p.failOn = map[zodiac.Body]error{zodiac.Mars: errors.New("ephemeris file missing")}

	ch, err := Render(p, testRequest, testDims, DefaultTheme())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Mars") {
		t.Errorf("error %q does not name Mars", err)
	}
	if b, ok := FailedBody(err); !ok || b != zodiac.Mars {
		t.Errorf("FailedBody = %v, %v", b, ok)
	}
	if !IsKind(err, KindEphemerisFailure) {
		t.Errorf("kind = %v, want ephemeris failure", err)
	}
	if ch.Primitives != nil {
		t.Error("primitives emitted after a failed resolution")
	}
	if last := p.asked[len(p.asked)-1]; last != zodiac.Mars {
		t.Errorf("kept querying after Mars failed, last = %v", last)
	}
}

func TestResolveErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*stubProvider)
		req  Request
		kind ErrorKind
		step Step
	}{
		{
			name: "invalid date",
			mod:  func(p *stubProvider) { p.jdErr = fmt.Errorf("%w: year 9999", ephem.ErrInvalidDate) },
			req:  testRequest,
			kind: KindInvalidDate,
			step: StepJulianDay,
		},
		{
			name: "julian day fault",
			mod:  func(p *stubProvider) { p.jdErr = errors.New("wasm trap") },
			req:  testRequest,
			kind: KindEphemerisFailure,
			step: StepJulianDay,
		},
		{
			name: "houses",
			mod:  func(p *stubProvider) { p.houseErr = ephem.ErrHouseComputation },
			req:  testRequest,
			kind: KindEphemerisFailure,
			step: StepHouses,
		},
		{
			name: "non-finite cusp",
			mod:  func(p *stubProvider) { p.houses[4] = math.NaN() },
			req:  testRequest,
			kind: KindDegenerateGeometry,
			step: StepHouses,
		},
		{
			name: "non-finite body",
			mod:  func(p *stubProvider) { p.bodies[zodiac.Jupiter] = ephem.BodyPosition{Longitude: math.Inf(1)} },
			req:  testRequest,
			kind: KindDegenerateGeometry,
			step: StepBody,
		},
		{
			name: "bad location",
			mod:  func(p *stubProvider) {},
			req:  Request{Time: testRequest.Time, Observer: astro.Observer{LatDeg: 95}},
			kind: KindInvalidLocation,
			step: StepLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := evenChart()
			tt.mod(p)
			_, err := NewResolver(p).Resolve(tt.req)
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("error %v is not a *Error", err)
			}
			if ce.Kind != tt.kind || ce.Step != tt.step {
				t.Errorf("got kind %v step %q, want %v %q", ce.Kind, ce.Step, tt.kind, tt.step)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	p := evenChart()
	p.houseErr = ephem.ErrHouseComputation
	_, err := NewResolver(p).Resolve(testRequest)
	if !errors.Is(err, ephem.ErrHouseComputation) {
		t.Errorf("errors.Is lost the provider error: %v", err)
	}
	if IsKind(errors.New("plain"), KindEphemerisFailure) {
		t.Error("IsKind matched a plain error")
	}
}

func TestAspects(t *testing.T) {
	res, err := NewResolver(evenChart()).Resolve(testRequest)
	if err != nil {
		t.Fatal(err)
	}

	want := []AspectEdge{
		{A: zodiac.Sun, B: zodiac.Moon, Kind: zodiac.Trine, Color: "#00FF00"},
		{A: zodiac.Sun, B: zodiac.Saturn, Kind: zodiac.Opposition, Color: "#FF00FF"},
		{A: zodiac.Moon, B: zodiac.Saturn, Kind: zodiac.Sextile, Color: "#00FFFF"},
	}
	got := Aspects(res)
	if len(got) != len(want) {
		t.Fatalf("Aspects() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRenderDignities(t *testing.T) {
	ch, err := Render(evenChart(), testRequest, testDims, DefaultTheme())
	if err != nil {
		t.Fatal(err)
	}
	want := [zodiac.NumBodies]zodiac.Dignity{
		zodiac.Domicile,  // Sun in Leo
		zodiac.None,      // Moon in Aries
		zodiac.None,      // Mercury in Cancer
		zodiac.Fall,      // Venus in Virgo
		zodiac.Detriment, // Mars in Libra
		zodiac.Domicile,  // Jupiter in Sagittarius
		zodiac.Domicile,  // Saturn in Capricorn
	}
	if ch.Dignities != want {
		t.Errorf("Dignities = %v, want %v", ch.Dignities, want)
	}
}

func TestRenderRejectsBadDimensions(t *testing.T) {
	p := evenChart()
	for _, dims := range []Dimensions{
		{Width: 0, Height: 600, Radius: 200},
		{Width: 600, Height: 600, Radius: -1},
		{Width: math.NaN(), Height: 600, Radius: 200},
	} {
		_, err := Render(p, testRequest, dims, DefaultTheme())
		if !IsKind(err, KindDegenerateGeometry) {
			t.Errorf("Render(%+v) error = %v, want degenerate geometry", dims, err)
		}
	}
	if len(p.asked) != 0 {
		t.Error("provider queried for an undrawable canvas")
	}
}

func TestDignityColors(t *testing.T) {
	theme := DefaultTheme()
	if theme.Dignities.For(zodiac.Exaltation) != "#FFFF00" || theme.Dignities.For(zodiac.None) != "#00CCFF" {
		t.Error("unexpected default dignity colours")
	}
}

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}
