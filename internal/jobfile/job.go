// Package jobfile loads and validates job descriptions: the declarative
// input that says which disease parameters to vary, over how many stages,
// and with which design method.
package jobfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Design methods understood by the generator.
const (
	MethodFullFactorial  = "full_factorial"
	MethodLatinHypercube = "latin_hypercube"
)

// Spacing rules for a design entry.
const (
	SpacingLinear   = "linear"
	SpacingMidpoint = "midpoint"
)

// Job is one analysis description.
type Job struct {
	Disease       string      `json:"disease" yaml:"disease"`
	Stages        int         `json:"stages" yaml:"stages"`
	Method        Method      `json:"method" yaml:"method"`
	ParameterList []Parameter `json:"parameter_list" yaml:"parameter_list"`
	Design        []Entry     `json:"design" yaml:"design"`
}

// Parameter is a tunable disease parameter with a closed range.
type Parameter struct {
	Name string  `json:"name" yaml:"name"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// Entry binds a parameter to a sampling rule. Apply, when set, selects the
// stages the rule expands into.
type Entry struct {
	Name    string `json:"name" yaml:"name"`
	Samples int    `json:"samples" yaml:"samples"`
	Spacing string `json:"spacing" yaml:"spacing"`
	Apply   []bool `json:"apply,omitempty" yaml:"apply,omitempty"`
}

// Method names the design algorithm. It decodes from either a bare string
// or an {"algorithm": ..., "args": {...}} object.
type Method struct {
	Algorithm string
	Args      MethodArgs
	// Extended is true when the object form was used.
	Extended bool
}

// MethodArgs are builder-specific arguments of the object form.
type MethodArgs struct {
	Samples *int   `json:"samples,omitempty" yaml:"samples,omitempty"`
	Seed    *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

type methodObject struct {
	Algorithm string     `json:"algorithm" yaml:"algorithm"`
	Args      MethodArgs `json:"args" yaml:"args"`
}

// NewMethod returns the plain string form of a method.
func NewMethod(algorithm string) Method {
	return Method{Algorithm: algorithm}
}

func (m Method) String() string {
	return m.Algorithm
}

// MarshalJSON writes the string form unless args were given.
func (m Method) MarshalJSON() ([]byte, error) {
	if !m.Extended {
		return json.Marshal(m.Algorithm)
	}
	return json.Marshal(methodObject{Algorithm: m.Algorithm, Args: m.Args})
}

func (m *Method) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Method{Algorithm: s}
		return nil
	}
	var obj methodObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("method must be a string or an object: %w", err)
	}
	*m = Method{Algorithm: obj.Algorithm, Args: obj.Args, Extended: true}
	return nil
}

func (m Method) MarshalYAML() (interface{}, error) {
	if !m.Extended {
		return m.Algorithm, nil
	}
	return methodObject{Algorithm: m.Algorithm, Args: m.Args}, nil
}

func (m *Method) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*m = Method{Algorithm: value.Value}
		return nil
	}
	var obj methodObject
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("method must be a string or a mapping: %w", err)
	}
	*m = Method{Algorithm: obj.Algorithm, Args: obj.Args, Extended: true}
	return nil
}

// Parameter returns the named parameter.
func (j *Job) Parameter(name string) (Parameter, bool) {
	for _, p := range j.ParameterList {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Mask returns the effective stage mask of an entry: all stages when Apply
// is unset.
func (j *Job) Mask(e Entry) []bool {
	if e.Apply != nil {
		return e.Apply
	}
	mask := make([]bool, j.Stages)
	for i := range mask {
		mask[i] = true
	}
	return mask
}
