package epi

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ScaleHypercube maps each design column from [-1, 1] onto [mins[j], maxs[j]].
// Any value outside [-1, 1] is rejected.
func ScaleHypercube(m mat.Matrix, mins, maxs []float64) (*mat.Dense, error) {
	r, c := m.Dims()
	if len(mins) != c || len(maxs) != c {
		return nil, fmt.Errorf("%d columns, %d minimums, %d maximums: %w", c, len(mins), len(maxs), ErrDimension)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v < -1 || v > 1 {
				return nil, fmt.Errorf("row %d column %d = %g: %w", i, j, v, ErrOutOfRange)
			}
		}
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return ScaleValue(v, mins[j], maxs[j])
	}, m)
	return out, nil
}

// ScaleValue maps one hypercube coordinate in [-1, 1] onto [min, max].
func ScaleValue(v, min, max float64) float64 {
	return (v/2+0.5)*(max-min) + min
}

// ScaleUnit maps each column from [0, 1] onto [mins[j], maxs[j]] without
// range checks.
func ScaleUnit(m mat.Matrix, mins, maxs []float64) (*mat.Dense, error) {
	_, c := m.Dims()
	if len(mins) != c || len(maxs) != c {
		return nil, fmt.Errorf("%d columns, %d minimums, %d maximums: %w", c, len(mins), len(maxs), ErrDimension)
	}
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return v*(maxs[j]-mins[j]) + mins[j]
	}, m)
	return &out, nil
}
