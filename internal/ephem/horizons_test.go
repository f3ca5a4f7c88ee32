package ephem

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/litescript/ls-natal/internal/zodiac"
)

func horizonsBody(lines ...string) string {
	result := "*******\nDate__(UT)__HR:MN     ObsEcLon    ObsEcLat\n$$SOE\n" +
		strings.Join(lines, "\n") + "\n$$EOE\n*******\n"
	b, _ := json.Marshal(map[string]any{
		"signature": map[string]string{"version": "1.2", "source": "NASA/JPL Horizons API"},
		"result":    result,
	})
	return string(b)
}

func TestHorizonsBodyPosition(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Get("COMMAND") != "'499'" {
			t.Errorf("COMMAND = %q, want '499'", q.Get("COMMAND"))
		}
		if q.Get("QUANTITIES") != "'31'" {
			t.Errorf("QUANTITIES = %q", q.Get("QUANTITIES"))
		}
		if q.Get("CENTER") != "'500@399'" {
			t.Errorf("CENTER = %q", q.Get("CENTER"))
		}
		fmt.Fprint(w, horizonsBody(
			"2000-Jan-01 12:00     327.9631  -1.0678",
			"2000-Jan-02 12:00     328.7388  -1.0761",
		))
	}))
	defer srv.Close()

	p := NewHorizonsProvider(srv.URL, nil)
	pos, err := p.BodyPosition(j2000, zodiac.Mars)
	if err != nil {
		t.Fatalf("BodyPosition: %v", err)
	}
	if pos.Longitude != 327.9631 {
		t.Errorf("Longitude = %v", pos.Longitude)
	}
	if math.Abs(pos.Speed-0.7757) > 1e-9 {
		t.Errorf("Speed = %v, want 0.7757", pos.Speed)
	}

	// second call is served from cache
	if _, err := p.BodyPosition(j2000, zodiac.Mars); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	p.InvalidateCache()
	if _, err := p.BodyPosition(j2000, zodiac.Mars); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after invalidate, want 2", hits.Load())
	}
}

func TestHorizonsRetrogradeAcrossAries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, horizonsBody(
			"2000-Jan-01 12:00 *   0.2000  0.1",
			"2000-Jan-02 12:00 *   359.9000  0.1",
		))
	}))
	defer srv.Close()

	pos, err := NewHorizonsProvider(srv.URL, nil).BodyPosition(j2000, zodiac.Venus)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos.Speed+0.3) > 1e-9 {
		t.Errorf("Speed = %v, want -0.3", pos.Speed)
	}
}

func TestHorizonsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>")
		}},
		{"api error", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":"no such object"}`)
		}},
		{"no markers", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"nothing here"}`)
		}},
		{"one point", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, horizonsBody("2000-Jan-01 12:00  10.0  0.0"))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			if _, err := NewHorizonsProvider(srv.URL, nil).BodyPosition(j2000, zodiac.Sun); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHorizonsDelegatesHouses(t *testing.T) {
	p := NewHorizonsProvider("http://127.0.0.1:0", nil)
	if _, err := p.Houses(j2000, obsBeloHorizonte, Regiomontanus); err == nil {
		t.Error("expected unsupported house system from local provider")
	}
	cusps, err := p.Houses(j2000, obsBeloHorizonte, Placidus)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := NewMeeusProvider().Houses(j2000, obsBeloHorizonte, Placidus)
	if cusps != want {
		t.Errorf("Houses = %v, want %v", cusps, want)
	}
}

func TestParseEphemerisLine(t *testing.T) {
	tests := []struct {
		line    string
		wantLon float64
		wantLat float64
		wantErr bool
	}{
		{
			line:    "2000-Jan-01 12:00 *m  280.3689166  0.0002291",
			wantLon: 280.3689166,
			wantLat: 0.0002291,
		},
		{
			line:    "2025-Dec-05 01:00 Cm  270.255103  -5.668754",
			wantLon: 270.255103,
			wantLat: -5.668754,
		},
		{
			line:    "2025-Dec-05 02:50:00.000     85.908122  -1.510301",
			wantLon: 85.908122,
			wantLat: -1.510301,
		},
		{
			line:    "invalid",
			wantErr: true,
		},
		{
			line:    "2025-Dec-05 02:50 *m 12.5 n.a.",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		name := tc.line
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			pt, err := parseEphemerisLine(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if pt.lon != tc.wantLon {
				t.Errorf("lon = %v, want %v", pt.lon, tc.wantLon)
			}
			if pt.lat != tc.wantLat {
				t.Errorf("lat = %v, want %v", pt.lat, tc.wantLat)
			}
		})
	}
}
