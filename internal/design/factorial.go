package design

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FullFactorial enumerates the Cartesian product of the columns' levels,
// one row per combination, with the last column varying fastest. Each row
// holds the real level values, not the level indices.
//
// The row count is the product of the level counts; nothing guards against
// combinatorial growth.
func FullFactorial(cols []Column) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	rows := 1
	for _, c := range cols {
		if len(c.States) == 0 {
			return nil, fmt.Errorf("%s: %w", c.Ident(), ErrEmptyStates)
		}
		rows *= len(c.States)
	}

	n := len(cols)
	data := make([]float64, rows*n)
	for r := 0; r < rows; r++ {
		rem := r
		for k := n - 1; k >= 0; k-- {
			levels := len(cols[k].States)
			data[r*n+k] = cols[k].States[rem%levels]
			rem /= levels
		}
	}
	return mat.NewDense(rows, n, data), nil
}

// Levels returns the level index of every cell of a full factorial design
// row, using the same ordering as FullFactorial.
func Levels(cols []Column, row int) []int {
	idx := make([]int, len(cols))
	rem := row
	for k := len(cols) - 1; k >= 0; k-- {
		levels := len(cols[k].States)
		idx[k] = rem % levels
		rem /= levels
	}
	return idx
}
