package jobfile

import (
	"errors"
	"fmt"
)

var (
	ErrMissingKey      = errors.New("jobfile: missing required key")
	ErrEmptyList       = errors.New("jobfile: empty list")
	ErrInvalidStages   = errors.New("jobfile: stages must be at least 1")
	ErrUnknownMethod   = errors.New("jobfile: unknown design method")
	ErrMissingArgument = errors.New("jobfile: missing design method argument")
	ErrUnknownSpacing  = errors.New("jobfile: unknown spacing rule")
	ErrTooFewSamples   = errors.New("jobfile: samples must be at least 2")
	ErrMaskLength      = errors.New("jobfile: apply mask length does not match stages")
	ErrDecode          = errors.New("jobfile: cannot decode job description")
	ErrDuplicateName   = errors.New("jobfile: parameter name listed twice")
)

// methodRules lists, per design method, the arguments the object form of
// "method" must carry.
var methodRules = map[string][]string{
	MethodFullFactorial:  nil,
	MethodLatinHypercube: {"samples"},
}

// KnownMethod reports whether name is a supported design method.
func KnownMethod(name string) bool {
	_, ok := methodRules[name]
	return ok
}

// Validate checks the value constraints of a job. Entry names are not
// cross-checked against the parameter list; an unknown reference surfaces
// when the columns are extracted.
func Validate(job *Job) error {
	if job == nil {
		return fmt.Errorf("nil job: %w", ErrMissingKey)
	}
	if job.Stages < 1 {
		return fmt.Errorf("stages=%d: %w", job.Stages, ErrInvalidStages)
	}
	if !KnownMethod(job.Method.Algorithm) {
		return fmt.Errorf("method %q: %w", job.Method.Algorithm, ErrUnknownMethod)
	}
	if job.Method.Extended {
		for _, arg := range methodRules[job.Method.Algorithm] {
			if arg == "samples" && job.Method.Args.Samples == nil {
				return fmt.Errorf("method %s needs args.%s: %w", job.Method.Algorithm, arg, ErrMissingArgument)
			}
		}
		if s := job.Method.Args.Samples; s != nil && *s < 1 {
			return fmt.Errorf("args.samples=%d: %w", *s, ErrMissingArgument)
		}
	}

	if len(job.ParameterList) == 0 {
		return fmt.Errorf("parameter_list: %w", ErrEmptyList)
	}
	seen := make(map[string]bool, len(job.ParameterList))
	for i, p := range job.ParameterList {
		if p.Name == "" {
			return fmt.Errorf("parameter_list[%d].name: %w", i, ErrMissingKey)
		}
		if seen[p.Name] {
			return fmt.Errorf("parameter_list[%d] %s: %w", i, p.Name, ErrDuplicateName)
		}
		seen[p.Name] = true
	}

	if len(job.Design) == 0 {
		return fmt.Errorf("design: %w", ErrEmptyList)
	}
	for i, e := range job.Design {
		if e.Name == "" {
			return fmt.Errorf("design[%d].name: %w", i, ErrMissingKey)
		}
		if e.Samples < 2 {
			return fmt.Errorf("design[%d] %s samples=%d: %w", i, e.Name, e.Samples, ErrTooFewSamples)
		}
		if e.Spacing != SpacingLinear && e.Spacing != SpacingMidpoint {
			return fmt.Errorf("design[%d] %s spacing %q: %w", i, e.Name, e.Spacing, ErrUnknownSpacing)
		}
		if e.Apply != nil && len(e.Apply) != job.Stages {
			return fmt.Errorf("design[%d] %s apply has %d entries, stages=%d: %w",
				i, e.Name, len(e.Apply), job.Stages, ErrMaskLength)
		}
	}
	return nil
}

// IsValid is the predicate form of Validate.
func IsValid(job *Job) bool {
	return Validate(job) == nil
}
