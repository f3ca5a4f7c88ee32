package chart

import (
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// Chart is one complete render pass.
type Chart struct {
	Resolved
	Dignities  [zodiac.NumBodies]zodiac.Dignity
	Aspects    []AspectEdge
	Dimensions Dimensions
	Theme      Theme
	Primitives []Primitive
}

// Render resolves, detects aspects and lays out a chart. A failure at
// any stage returns no primitives.
func Render(p ephem.Provider, req Request, dims Dimensions, theme Theme) (Chart, error) {
	if err := dims.Validate(); err != nil {
		return Chart{}, err
	}

	res, err := NewResolver(p).Resolve(req)
	if err != nil {
		return Chart{}, err
	}

	ch := Chart{
		Resolved:   res,
		Aspects:    Aspects(res),
		Dimensions: dims,
		Theme:      theme,
	}
	for _, pl := range res.Planets {
		d, err := zodiac.Classify(pl.Body, pl.Longitude)
		if err != nil {
			return Chart{}, &Error{Kind: KindDegenerateGeometry, Step: StepBody, Body: pl.Body, Err: err}
		}
		ch.Dignities[pl.Body] = d
	}

	prims, err := layout(res, ch.Aspects, dims, theme)
	if err != nil {
		return Chart{}, err
	}
	ch.Primitives = prims
	return ch, nil
}
