package zodiac

import (
	"errors"
	"math"
	"testing"
)

func TestSignOf(t *testing.T) {
	tests := []struct {
		lon  float64
		want Sign
	}{
		{0, Aries},
		{29.999, Aries},
		{30, Taurus},
		{359.9, Pisces},
		{360, Aries},
		{-0.5, Pisces},
		{-30, Pisces},
		{-31, Aquarius},
		{725, Aries},
		{120, Leo},
	}

	for _, tt := range tests {
		got, err := SignOf(tt.lon)
		if err != nil {
			t.Fatalf("SignOf(%v) error: %v", tt.lon, err)
		}
		if got != tt.want {
			t.Errorf("SignOf(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}

	if _, err := SignOf(math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("SignOf(NaN) error = %v, want ErrNonFinite", err)
	}
}

func TestFormatLongitude(t *testing.T) {
	tests := []struct {
		lon  float64
		want string
	}{
		{0, " 0°00' Ari"},
		{135.5, "15°30' Leo"},
		{359.99, "29°59' Pis"},
		{-10, "20°00' Pis"},
	}
	for _, tt := range tests {
		if got := FormatLongitude(tt.lon); got != tt.want {
			t.Errorf("FormatLongitude(%v) = %q, want %q", tt.lon, got, tt.want)
		}
	}
	if got := FormatLongitude(math.Inf(1)); got != "--" {
		t.Errorf("FormatLongitude(Inf) = %q, want --", got)
	}
}

func TestBodies(t *testing.T) {
	b := Bodies()
	b[0] = Saturn
	if Bodies()[0] != Sun {
		t.Error("Bodies() returned shared storage")
	}

	want := []string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"}
	for i, body := range Bodies() {
		if body.String() != want[i] {
			t.Errorf("Bodies()[%d] = %v, want %v", i, body, want[i])
		}
	}
}

func TestParseBody(t *testing.T) {
	got, err := ParseBody(" mars ")
	if err != nil || got != Mars {
		t.Errorf("ParseBody(mars) = %v, %v", got, err)
	}
	if _, err := ParseBody("pluto"); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("ParseBody(pluto) error = %v", err)
	}
}

func TestKeys(t *testing.T) {
	if Jupiter.Key() != "jupiter" {
		t.Errorf("Jupiter.Key() = %q", Jupiter.Key())
	}
	if Sagittarius.Key() != "sagittarius" {
		t.Errorf("Sagittarius.Key() = %q", Sagittarius.Key())
	}
	if Sign(12).String() != "unknown" || Body(-1).String() != "unknown" {
		t.Error("out-of-range names should be unknown")
	}
}
