package service

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"metawards-uq/internal/design"
)

type ColumnStats struct {
	Name   string  `json:"name"`
	Levels int     `json:"levels"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ComputeColumnStats summarises every design column.
func ComputeColumnStats(m *design.Matrix) []ColumnStats {
	out := make([]ColumnStats, len(m.Columns))
	for j, c := range m.Columns {
		col := mat.Col(nil, j, m.Data)
		cs := ColumnStats{
			Name:   c.Ident(),
			Levels: len(c.States),
			Min:    floats.Min(col),
			Max:    floats.Max(col),
			Mean:   stat.Mean(col, nil),
		}
		if len(col) > 1 {
			cs.StdDev = stat.StdDev(col, nil)
		}
		out[j] = cs
	}
	return out
}

// Stratification reports how many of the equal-width strata between each
// column's level extremes hold exactly one design point.
type Stratification struct {
	Strata  int            `json:"strata"`
	Covered map[string]int `json:"covered"`
	OK      bool           `json:"ok"`
}

// CheckStratification verifies the Latin property of a sampled design.
func CheckStratification(m *design.Matrix) Stratification {
	n := m.Rows()
	st := Stratification{Strata: n, Covered: map[string]int{}, OK: true}
	for j, c := range m.Columns {
		lo, hi := floats.Min(c.States), floats.Max(c.States)
		hits := make([]int, n)
		for i := 0; i < n; i++ {
			k := 0
			if hi > lo {
				k = int(math.Floor((m.Data.At(i, j) - lo) / (hi - lo) * float64(n)))
			}
			if k >= n {
				k = n - 1
			}
			if k < 0 {
				k = 0
			}
			hits[k]++
		}
		covered := 0
		for _, h := range hits {
			if h == 1 {
				covered++
			}
		}
		st.Covered[c.Ident()] = covered
		if covered != n {
			st.OK = false
		}
	}
	return st
}
