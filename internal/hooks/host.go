// Package hooks implements the callbacks the metapopulation simulator calls
// each step: lockdown iteration, demographic movers, the interaction mixer
// and output extractors. The simulator is reached only through the narrow
// interfaces below, which an adapter implements over the host's objects.
package hooks

import (
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrMissingParam    = errors.New("hooks: missing user parameter")
	ErrInvalidFraction = errors.New("hooks: fraction outside [0, 1]")
	ErrInvalidFolder   = errors.New("hooks: output folder has no repeat suffix")
	ErrNoRun           = errors.New("hooks: session has not been set up")
)

// UserParams exposes the user-adjustable parameters of the current run.
type UserParams interface {
	Value(name string) (float64, bool)
	Values(name string) ([]float64, bool)
}

// Clock reports the current simulated day.
type Clock interface {
	Day() int
	Date() time.Time
}

// WardCounts gives per-ward totals indexed by ward; index 0 is a placeholder.
type WardCounts interface {
	InfectedInWards() []int64
	RemovedInWards() []int64
}

// DemographicCounts gives per-demographic ward totals by infection class.
type DemographicCounts interface {
	Demographics() []string
	// WardInfTotals returns totals[class][ward] for demographic i.
	WardInfTotals(i int) [][]int64
	// Wards is the number of real wards; ward ids run from 1 to Wards().
	Wards() int
}

// DiseaseSource exposes the disease parameters of the current run.
type DiseaseSource interface {
	Beta() []float64
	Progress() []float64
	TooIllToMove() []float64
	ContribFOI() []float64
	StartSymptom() float64
}

// OutputDir is the run's private output folder.
type OutputDir interface {
	Open(name string) (io.Writer, error)
	Path() string
}

// AdvanceFunc is one step function handed back to the simulator.
type AdvanceFunc func() error

// Advancer exposes the simulator's built-in advance steps.
type Advancer interface {
	AdvanceInfProb(scaleRate float64) error
	AdvancePlay() error
	AdvanceFixed() error
	WorkingWeek() []AdvanceFunc
}

// MapParams is a UserParams backed by maps; handy for adapters and tests.
type MapParams struct {
	Scalars map[string]float64
	Vectors map[string][]float64
}

func (p MapParams) Value(name string) (float64, bool) {
	v, ok := p.Scalars[name]
	return v, ok
}

func (p MapParams) Values(name string) ([]float64, bool) {
	v, ok := p.Vectors[name]
	return v, ok
}

func value(p UserParams, name string) (float64, error) {
	v, ok := p.Value(name)
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrMissingParam)
	}
	return v, nil
}

func element(p UserParams, name string, i int) (float64, error) {
	vs, ok := p.Values(name)
	if !ok || i < 0 || i >= len(vs) {
		return 0, fmt.Errorf("%s[%d]: %w", name, i, ErrMissingParam)
	}
	return vs[i], nil
}
