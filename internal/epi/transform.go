// Package epi converts epidemiological quantities into the disease
// parameters the simulator reads, and rescales hypercube designs into
// parameter space.
package epi

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidIncubation = errors.New("epi: invalid incubation time")
	ErrInvalidInfectious = errors.New("epi: invalid infectious period")
	ErrInvalidRZero      = errors.New("epi: invalid R0")
	ErrOutOfRange        = errors.New("epi: design value outside [-1, 1]")
	ErrDimension         = errors.New("epi: dimension mismatch")
)

// DiseaseHeader names the values produced by Disease.Values.
var DiseaseHeader = []string{"beta[2]", "beta[3]", "progress[1]", "progress[2]", "progress[3]"}

// Disease holds the simulator parameters derived from one epidemiological
// point.
type Disease struct {
	Beta2     float64 `json:"beta_2"`
	Beta3     float64 `json:"beta_3"`
	Progress1 float64 `json:"progress_1"`
	Progress2 float64 `json:"progress_2"`
	Progress3 float64 `json:"progress_3"`
	// DoublingTime is NaN when the growth quadratic degenerates.
	DoublingTime float64 `json:"-"`
}

// Values returns the parameters in DiseaseHeader order.
func (d Disease) Values() []float64 {
	return []float64{d.Beta2, d.Beta3, d.Progress1, d.Progress2, d.Progress3}
}

// ToDisease derives disease parameters from incubation time, infectious
// period (days) and R0. The first infectious day is its own stage, so the
// infectious period must exceed one day.
func ToDisease(incubation, infectious, r0 float64) (Disease, error) {
	if !(incubation > 0) {
		return Disease{}, fmt.Errorf("%g: %w", incubation, ErrInvalidIncubation)
	}
	if !(infectious > 1) {
		return Disease{}, fmt.Errorf("%g: %w", infectious, ErrInvalidInfectious)
	}
	if !(r0 >= 0) {
		return Disease{}, fmt.Errorf("%g: %w", r0, ErrInvalidRZero)
	}

	beta := r0 / infectious
	invIncu := 1 / incubation
	invInf := 1 / infectious

	return Disease{
		Beta2:        beta,
		Beta3:        beta,
		Progress1:    invIncu,
		Progress2:    1,
		Progress3:    1 / (infectious - 1),
		DoublingTime: doublingTime(beta, invIncu, invInf),
	}, nil
}

func doublingTime(beta, invIncu, invInf float64) float64 {
	a := beta*invIncu - invInf*invIncu
	if a == 0 {
		return math.NaN()
	}
	b := invInf + invIncu
	c := -1.0
	disc := math.Sqrt(b*b - 4*a*c)
	return math.Ln2 * ((-beta + disc) / (2 * a))
}
