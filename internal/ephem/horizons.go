package ephem

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/zodiac"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// PositionCacheTTL is how long to cache a fetched body position.
	PositionCacheTTL = 30 * time.Minute

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second
)

// HorizonsProvider queries JPL Horizons for geocentric ecliptic
// longitudes. Julian days and house cusps come from a local provider,
// since Horizons has no notion of houses.
type HorizonsProvider struct {
	client  *http.Client
	baseURL string
	local   Provider

	mu    sync.RWMutex
	cache map[positionKey]*cachedPosition
}

type positionKey struct {
	target TargetID
	jd     float64
}

// cachedPosition stores a fetched position.
type cachedPosition struct {
	pos       BodyPosition
	fetchedAt time.Time
}

// NewHorizonsProvider creates a new Horizons API client. An empty
// baseURL selects HorizonsAPIURL.
func NewHorizonsProvider(baseURL string, local Provider) *HorizonsProvider {
	if baseURL == "" {
		baseURL = HorizonsAPIURL
	}
	if local == nil {
		local = NewMeeusProvider()
	}
	return &HorizonsProvider{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		baseURL: baseURL,
		local:   local,
		cache:   make(map[positionKey]*cachedPosition),
	}
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "Horizons"
}

// JulianDay implements Provider.
func (p *HorizonsProvider) JulianDay(t time.Time) (float64, error) {
	return p.local.JulianDay(t)
}

// Houses implements Provider.
func (p *HorizonsProvider) Houses(jd float64, obs astro.Observer, sys HouseSystem) ([12]float64, error) {
	return p.local.Houses(jd, obs, sys)
}

// BodyPosition implements Provider.
// Returns a cached position if available, otherwise queries Horizons
// for two points one day apart and derives the daily motion.
func (p *HorizonsProvider) BodyPosition(jd float64, body zodiac.Body) (BodyPosition, error) {
	target := GetNAIFID(body)
	if target == 0 {
		return BodyPosition{}, fmt.Errorf("%w: %d", zodiac.ErrUnknownBody, int(body))
	}
	key := positionKey{target: target, jd: jd}

	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()

	if ok && time.Since(cached.fetchedAt) < PositionCacheTTL {
		return cached.pos, nil
	}

	lons, err := p.queryHorizons(target, jd, jd+1)
	if err != nil {
		return BodyPosition{}, err
	}
	if len(lons) < 2 {
		return BodyPosition{}, fmt.Errorf("horizons returned %d points for target %d, want 2", len(lons), target)
	}

	pos := BodyPosition{
		Longitude: astro.NormalizeDegrees(lons[0]),
		Speed:     astro.SignedDelta(lons[0], lons[1]),
	}

	p.mu.Lock()
	p.cache[key] = &cachedPosition{pos: pos, fetchedAt: time.Now()}
	p.mu.Unlock()

	return pos, nil
}

// InvalidateCache drops every cached position.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[positionKey]*cachedPosition)
	p.mu.Unlock()
}

// queryHorizons requests observer ecliptic longitudes from the geocenter
// at a one-day step and returns them in time order.
func (p *HorizonsProvider) queryHorizons(target TargetID, startJD, stopJD float64) ([]float64, error) {
	// Build request parameters - values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", target))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'500@399'") // geocenter
	params.Set("START_TIME", fmt.Sprintf("'JD %.6f'", startJD))
	params.Set("STOP_TIME", fmt.Sprintf("'JD %.6f'", stopJD))
	params.Set("STEP_SIZE", "'1 d'")
	params.Set("QUANTITIES", "'31'") // 31=Observer ecliptic lon/lat

	reqURL := p.baseURL + "?" + params.Encode()

	resp, err := p.client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseHorizonsResponse(body)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseHorizonsResponse parses the Horizons JSON response into longitudes.
func parseHorizonsResponse(body []byte) ([]float64, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", resp.Error)
	}

	points, err := parseEphemerisTable(resp.Result)
	if err != nil {
		return nil, err
	}

	lons := make([]float64, len(points))
	for i, pt := range points {
		lons[i] = pt.lon
	}
	return lons, nil
}

type eclipticPoint struct {
	time     time.Time
	lon, lat float64
}

// parseEphemerisTable extracts points from the Horizons text output.
func parseEphemerisTable(result string) ([]eclipticPoint, error) {
	var points []eclipticPoint

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find ephemeris data markers")
	}

	dataSection := result[soeIdx+5 : eoeIdx]
	lines := strings.Split(dataSection, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		point, err := parseEphemerisLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		points = append(points, point)
	}

	return points, nil
}

// parseEphemerisLine parses a single ephemeris data line.
// Format for QUANTITIES='31' (ObsEcLon/ObsEcLat):
// 2000-Jan-01 12:00 *m  280.3689166  0.0002291
// Fields: date, time, flags, longitude, latitude
func parseEphemerisLine(line string) (eclipticPoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return eclipticPoint{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	// Parse date/time (first two fields)
	dateStr := fields[0] + " " + fields[1]
	t, err := parseHorizonsDateTime(dateStr)
	if err != nil {
		return eclipticPoint{}, err
	}

	// Longitude and latitude are the first two numeric fields.
	// Skip any flag fields (like *, *m, Cm, Nm, Am, etc.)
	var lon, lat float64
	numericCount := 0

	for i := 2; i < len(fields); i++ {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			numericCount++
			if numericCount == 1 {
				lon = val
			} else if numericCount == 2 {
				lat = val
				break
			}
		}
	}

	if numericCount < 2 {
		return eclipticPoint{}, fmt.Errorf("could not find ecliptic lon/lat values")
	}

	return eclipticPoint{time: t, lon: lon, lat: lat}, nil
}

// parseHorizonsDateTime parses Horizons date format like "2025-Dec-05 00:00".
func parseHorizonsDateTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-Jan-02 15:04",
		"2006-Jan-02 15:04:05",
		"2006-Jan-02 15:04:05.000",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
