package ephem

import (
	"strings"

	"github.com/litescript/ls-natal/internal/zodiac"
)

// TargetID is a NAIF SPICE ID for a solar system body.
type TargetID int

// NAIF SPICE IDs for the chart bodies.
// Sourced from https://naif.jpl.nasa.gov/pub/naif/toolkit_docs/C/req/naif_ids.html
const (
	NAIFSun     TargetID = 10
	NAIFMoon    TargetID = 301
	NAIFMercury TargetID = 199
	NAIFVenus   TargetID = 299
	NAIFMars    TargetID = 499
	NAIFJupiter TargetID = 599
	NAIFSaturn  TargetID = 699
)

// TargetInfo contains mapping information for a chart body.
type TargetInfo struct {
	Body    zodiac.Body
	NAIFID  TargetID
	Aliases []string // Alternative names accepted on input
}

// Targets is the canonical list of chart bodies with their NAIF mappings,
// in chart order.
var Targets = []TargetInfo{
	{Body: zodiac.Sun, NAIFID: NAIFSun, Aliases: []string{"sol"}},
	{Body: zodiac.Moon, NAIFID: NAIFMoon, Aliases: []string{"luna"}},
	{Body: zodiac.Mercury, NAIFID: NAIFMercury},
	{Body: zodiac.Venus, NAIFID: NAIFVenus},
	{Body: zodiac.Mars, NAIFID: NAIFMars},
	{Body: zodiac.Jupiter, NAIFID: NAIFJupiter},
	{Body: zodiac.Saturn, NAIFID: NAIFSaturn},
}

// TargetsByNAIF maps NAIF IDs to target info for quick lookup.
var TargetsByNAIF = func() map[TargetID]TargetInfo {
	m := make(map[TargetID]TargetInfo, len(Targets))
	for _, t := range Targets {
		m[t.NAIFID] = t
	}
	return m
}()

// TargetsByName maps lowercase body names and aliases to target info.
var TargetsByName = func() map[string]TargetInfo {
	m := make(map[string]TargetInfo, len(Targets)*2)
	for _, t := range Targets {
		m[strings.ToLower(t.Body.String())] = t
		for _, alias := range t.Aliases {
			m[strings.ToLower(alias)] = t
		}
	}
	return m
}()

// GetNAIFID returns the NAIF ID for a body, or 0 if unknown.
func GetNAIFID(b zodiac.Body) TargetID {
	if !b.Valid() {
		return 0
	}
	return Targets[b].NAIFID
}

// GetTargetByNAIF returns target info for a NAIF ID.
func GetTargetByNAIF(id TargetID) (TargetInfo, bool) {
	t, ok := TargetsByNAIF[id]
	return t, ok
}

// GetTargetByName returns target info for a body name (case-insensitive).
func GetTargetByName(name string) (TargetInfo, bool) {
	t, ok := TargetsByName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}
