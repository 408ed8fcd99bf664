package design

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NewRand returns the generator used for Latin hypercube draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// UnitHypercube draws a Latin hypercube of samples points in dims
// dimensions on [0, 1]. Each column has exactly one point in each of the
// samples equal strata; strata are permuted independently per column.
func UnitHypercube(dims, samples int, rng *rand.Rand) (*mat.Dense, error) {
	if dims <= 0 {
		return nil, ErrNoColumns
	}
	if samples <= 0 {
		return nil, fmt.Errorf("samples=%d: %w", samples, ErrInvalidSamples)
	}
	h := mat.NewDense(samples, dims, nil)
	width := 1.0 / float64(samples)
	for j := 0; j < dims; j++ {
		order := rng.Perm(samples)
		for i := 0; i < samples; i++ {
			h.Set(i, j, (float64(order[i])+rng.Float64())*width)
		}
	}
	return h, nil
}

// LatinHypercube draws a Latin hypercube over the columns. Each column is
// rescaled to the extremes of its candidate levels, not to the parameter's
// declared range.
func LatinHypercube(cols []Column, samples int, rng *rand.Rand) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	lo := make([]float64, len(cols))
	hi := make([]float64, len(cols))
	for j, c := range cols {
		if len(c.States) == 0 {
			return nil, fmt.Errorf("%s: %w", c.Ident(), ErrEmptyStates)
		}
		lo[j] = floats.Min(c.States)
		hi[j] = floats.Max(c.States)
	}

	h, err := UnitHypercube(len(cols), samples, rng)
	if err != nil {
		return nil, err
	}
	h.Apply(func(_, j int, v float64) float64 {
		return lo[j] + v*(hi[j]-lo[j])
	}, h)
	return h, nil
}
