package design

import (
	"fmt"
	"strconv"

	"metawards-uq/internal/jobfile"
)

// Column is one (parameter, stage) axis of a design with its candidate
// levels.
type Column struct {
	Name   string
	Stage  int
	States []float64
}

// Ident is the header name of the column, e.g. "beta[2]".
func (c Column) Ident() string {
	return Ident(c.Name, c.Stage)
}

// Ident formats a parameter/stage pair the way the simulator names them.
func Ident(name string, stage int) string {
	return name + "[" + strconv.Itoa(stage) + "]"
}

// ExtractColumns expands every design entry into one column per selected
// stage, in entry then stage order. All stage columns of one entry share the
// same candidate levels.
func ExtractColumns(job *jobfile.Job) ([]Column, error) {
	var cols []Column
	for _, entry := range job.Design {
		param, ok := job.Parameter(entry.Name)
		if !ok {
			return nil, fmt.Errorf("design entry %q: %w", entry.Name, ErrUnknownParameter)
		}
		space, ok := spacings[entry.Spacing]
		if !ok {
			return nil, fmt.Errorf("design entry %q spacing %q: %w", entry.Name, entry.Spacing, ErrUnknownSpacing)
		}
		states := space(param.Min, param.Max, entry.Samples)

		mask := job.Mask(entry)
		for stage := 0; stage < job.Stages && stage < len(mask); stage++ {
			if !mask[stage] {
				continue
			}
			cols = append(cols, Column{Name: entry.Name, Stage: stage, States: states})
		}
	}
	return cols, nil
}

// Idents returns the header names of cols.
func Idents(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Ident()
	}
	return out
}

// FullHeader lists every parameter of the job over every stage, regardless
// of the design masks.
func FullHeader(job *jobfile.Job) []string {
	out := make([]string, 0, len(job.ParameterList)*job.Stages)
	for _, p := range job.ParameterList {
		for stage := 0; stage < job.Stages; stage++ {
			out = append(out, Ident(p.Name, stage))
		}
	}
	return out
}
