// Package design builds design matrices from job descriptions: one row per
// experimental condition, one column per (parameter, stage) pair selected by
// the job's design entries.
package design

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"metawards-uq/internal/jobfile"
)

// Matrix is a generated design with its column layout.
type Matrix struct {
	Method  string
	Columns []Column
	Data    *mat.Dense
	// Seed is the Latin hypercube seed; zero for deterministic methods.
	Seed uint64
}

// Header returns the column idents in order.
func (m *Matrix) Header() []string {
	return Idents(m.Columns)
}

// HeaderLine returns the comma joined header.
func (m *Matrix) HeaderLine() string {
	return strings.Join(m.Header(), ",")
}

// Rows returns the number of design points.
func (m *Matrix) Rows() int {
	r, _ := m.Data.Dims()
	return r
}

// Row returns a copy of design point i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.Data)
}

// Options tune a generation call.
type Options struct {
	// Samples overrides the Latin hypercube row count when positive.
	Samples int
	// Seed fixes the Latin hypercube draw when HasSeed is set.
	Seed    uint64
	HasSeed bool
}

// Option mutates Options.
type Option func(*Options)

// WithSamples sets the Latin hypercube row count.
func WithSamples(n int) Option {
	return func(o *Options) { o.Samples = n }
}

// WithSeed fixes the Latin hypercube seed.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
		o.HasSeed = true
	}
}

// Builder turns extracted columns into a design.
type Builder func(job *jobfile.Job, cols []Column, opts Options) (*Matrix, error)

var builders = map[string]Builder{
	jobfile.MethodFullFactorial:  buildFactorial,
	jobfile.MethodLatinHypercube: buildLatin,
}

// Generate routes a validated job to the builder named by its method.
func Generate(job *jobfile.Job, opts ...Option) (*Matrix, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	build, ok := builders[job.Method.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%q: %w", job.Method.Algorithm, ErrUnknownMethod)
	}
	cols, err := ExtractColumns(job)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	return build(job, cols, o)
}

// Process validates the job and generates its design.
func Process(job *jobfile.Job, opts ...Option) (*Matrix, error) {
	if err := jobfile.Validate(job); err != nil {
		return nil, err
	}
	return Generate(job, opts...)
}

func buildFactorial(job *jobfile.Job, cols []Column, _ Options) (*Matrix, error) {
	data, err := FullFactorial(cols)
	if err != nil {
		return nil, err
	}
	return &Matrix{Method: jobfile.MethodFullFactorial, Columns: cols, Data: data}, nil
}

// buildLatin picks the row count from, in order: the caller's option, the
// job's method args, the number of columns. The seed follows the same order
// and falls back to the clock.
func buildLatin(job *jobfile.Job, cols []Column, o Options) (*Matrix, error) {
	samples := len(cols)
	if s := job.Method.Args.Samples; s != nil {
		samples = *s
	}
	if o.Samples > 0 {
		samples = o.Samples
	}

	seed := uint64(time.Now().UnixNano())
	if s := job.Method.Args.Seed; s != nil {
		seed = uint64(*s)
	}
	if o.HasSeed {
		seed = o.Seed
	}

	data, err := LatinHypercube(cols, samples, NewRand(seed))
	if err != nil {
		return nil, err
	}
	return &Matrix{Method: jobfile.MethodLatinHypercube, Columns: cols, Data: data, Seed: seed}, nil
}
