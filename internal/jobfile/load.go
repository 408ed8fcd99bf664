package jobfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a job document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

var (
	topLevelKeys  = []string{"disease", "stages", "parameter_list", "design", "method"}
	parameterKeys = []string{"name", "min", "max"}
	entryKeys     = []string{"name", "samples", "spacing"}
)

// FormatFromPath picks the format from a file extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, parses and validates a job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file %s: %w", path, err)
	}
	job, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes a job document, checks that every required key is present
// and validates the values.
func Parse(data []byte, format Format) (*Job, error) {
	var raw map[string]interface{}
	if err := unmarshal(data, format, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrDecode)
	}
	if err := checkDocument(raw); err != nil {
		return nil, err
	}

	var job Job
	if err := unmarshal(data, format, &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := Validate(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Encode writes a job in the given format.
func Encode(job *Job, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(job)
	}
	return json.MarshalIndent(job, "", "    ")
}

func unmarshal(data []byte, format Format, v interface{}) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func checkDocument(raw map[string]interface{}) error {
	if err := requireKeys("job", raw, topLevelKeys); err != nil {
		return err
	}
	if err := requireListKeys("parameter_list", raw["parameter_list"], parameterKeys); err != nil {
		return err
	}
	return requireListKeys("design", raw["design"], entryKeys)
}

func requireKeys(where string, m map[string]interface{}, keys []string) error {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("%s.%s: %w", where, k, ErrMissingKey)
		}
	}
	return nil
}

func requireListKeys(name string, v interface{}, keys []string) error {
	items, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("%s must be a list: %w", name, ErrDecode)
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmptyList)
	}
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			return fmt.Errorf("%s[%d] must be an object: %w", name, i, ErrDecode)
		}
		if err := requireKeys(fmt.Sprintf("%s[%d]", name, i), m, keys); err != nil {
			return err
		}
	}
	return nil
}

// asMap accepts both JSON objects and YAML mappings.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
