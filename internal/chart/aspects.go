package chart

import "github.com/litescript/ls-natal/internal/zodiac"

// AspectEdge is a detected aspect between two bodies.
type AspectEdge struct {
	A, B  zodiac.Body
	Kind  zodiac.AspectKind
	Color Color
}

// Aspects checks every unordered pair of bodies once, in chart order.
func Aspects(res Resolved) []AspectEdge {
	bodies := zodiac.Bodies()
	var edges []AspectEdge
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			kind, ok := zodiac.DetectAspect(res.Placement(a), res.Placement(b))
			if !ok {
				continue
			}
			edges = append(edges, AspectEdge{A: a, B: b, Kind: kind, Color: AspectColor(kind)})
		}
	}
	return edges
}
