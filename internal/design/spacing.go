package design

import (
	"gonum.org/v1/gonum/floats"

	"metawards-uq/internal/jobfile"
)

// SpacingFunc returns the candidate levels of a column over [min, max].
type SpacingFunc func(min, max float64, samples int) []float64

var spacings = map[string]SpacingFunc{
	jobfile.SpacingLinear:   LinearSpace,
	jobfile.SpacingMidpoint: MidpointSpace,
}

// LinearSpace returns samples evenly spaced points over [min, max], both
// ends included.
func LinearSpace(min, max float64, samples int) []float64 {
	switch {
	case samples <= 0:
		return []float64{}
	case samples == 1:
		return []float64{min}
	}
	v := floats.Span(make([]float64, samples), min, max)
	// Span accumulates l+step*i, which can fall an ulp short of max.
	v[samples-1] = max
	return v
}

// MidpointSpace splits [min, max] into samples equal cells and returns the
// centre of each. Neither end point is ever produced.
func MidpointSpace(min, max float64, samples int) []float64 {
	if samples <= 0 {
		return []float64{}
	}
	edges := LinearSpace(min, max, samples+1)
	mids := make([]float64, samples)
	for i := 1; i <= samples; i++ {
		mids[i-1] = 0.5 * (edges[i-1] + edges[i])
	}
	return mids
}
