package design

import "errors"

var (
	ErrUnknownMethod    = errors.New("design: unknown design method")
	ErrUnknownParameter = errors.New("design: entry references an unknown parameter")
	ErrUnknownSpacing   = errors.New("design: unknown spacing rule")
	ErrNoColumns        = errors.New("design: no columns selected")
	ErrEmptyStates      = errors.New("design: column has no candidate levels")
	ErrInvalidSamples   = errors.New("design: sample count must be positive")
)
