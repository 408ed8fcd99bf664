package jobfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const betaJob = `{
  "disease": "ncov",
  "stages": 1,
  "method": "full_factorial",
  "parameter_list": [{"name": "beta", "min": 0.0, "max": 0.87}],
  "design": [{"name": "beta", "samples": 2, "spacing": "linear"}]
}`

func validJob() *Job {
	return &Job{
		Disease: "ncov",
		Stages:  5,
		Method:  NewMethod(MethodFullFactorial),
		ParameterList: []Parameter{
			{Name: "beta", Min: 0.3, Max: 0.5},
			{Name: "too_ill_to_move", Min: 0.0, Max: 0.5},
		},
		Design: []Entry{
			{Name: "beta", Samples: 3, Spacing: SpacingLinear, Apply: []bool{false, false, true, false, false}},
			{Name: "too_ill_to_move", Samples: 3, Spacing: SpacingLinear},
		},
	}
}

func TestParse_BetaJob(t *testing.T) {
	job, err := Parse([]byte(betaJob), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "ncov", job.Disease)
	assert.Equal(t, 1, job.Stages)
	assert.Equal(t, MethodFullFactorial, job.Method.Algorithm)
	assert.False(t, job.Method.Extended)
	require.Len(t, job.ParameterList, 1)
	assert.Equal(t, 0.87, job.ParameterList[0].Max)
	assert.Nil(t, job.Design[0].Apply)
}

func TestParse_MissingKeys(t *testing.T) {
	cases := map[string]string{
		"no method": `{"disease":"ncov","stages":1,
			"parameter_list":[{"name":"beta","min":0,"max":1}],
			"design":[{"name":"beta","samples":2,"spacing":"linear"}]}`,
		"parameter without max": `{"disease":"ncov","stages":1,"method":"full_factorial",
			"parameter_list":[{"name":"beta","min":0}],
			"design":[{"name":"beta","samples":2,"spacing":"linear"}]}`,
		"entry without spacing": `{"disease":"ncov","stages":1,"method":"full_factorial",
			"parameter_list":[{"name":"beta","min":0,"max":1}],
			"design":[{"name":"beta","samples":2}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), FormatJSON)
			assert.True(t, errors.Is(err, ErrMissingKey), "got %v", err)
		})
	}
}

func TestParse_BadDocument(t *testing.T) {
	_, err := Parse([]byte(`{not json`), FormatJSON)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Parse([]byte(`{}`), FormatJSON)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParse_ExtendedMethod(t *testing.T) {
	doc := `{"disease":"ncov","stages":2,
		"method":{"algorithm":"latin_hypercube","args":{"samples":10,"seed":42}},
		"parameter_list":[{"name":"beta","min":0,"max":1}],
		"design":[{"name":"beta","samples":4,"spacing":"midpoint"}]}`
	job, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.True(t, job.Method.Extended)
	require.NotNil(t, job.Method.Args.Samples)
	assert.Equal(t, 10, *job.Method.Args.Samples)
	require.NotNil(t, job.Method.Args.Seed)
	assert.Equal(t, int64(42), *job.Method.Args.Seed)

	missing := `{"disease":"ncov","stages":2,
		"method":{"algorithm":"latin_hypercube","args":{}},
		"parameter_list":[{"name":"beta","min":0,"max":1}],
		"design":[{"name":"beta","samples":4,"spacing":"midpoint"}]}`
	_, err = Parse([]byte(missing), FormatJSON)
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestParse_YAML(t *testing.T) {
	doc := `
disease: ncov
stages: 3
method:
  algorithm: latin_hypercube
  args:
    samples: 6
parameter_list:
  - {name: beta, min: 0.1, max: 0.9}
design:
  - name: beta
    samples: 2
    spacing: linear
    apply: [true, false, true]
`
	job, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, MethodLatinHypercube, job.Method.Algorithm)
	assert.Equal(t, []bool{true, false, true}, job.Design[0].Apply)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validJob()))

	cases := []struct {
		name   string
		mutate func(*Job)
		want   error
	}{
		{"zero stages", func(j *Job) { j.Stages = 0 }, ErrInvalidStages},
		{"unknown method", func(j *Job) { j.Method = NewMethod("sobol") }, ErrUnknownMethod},
		{"single sample", func(j *Job) { j.Design[1].Samples = 1 }, ErrTooFewSamples},
		{"short mask", func(j *Job) { j.Design[0].Apply = []bool{true, false} }, ErrMaskLength},
		{"empty mask", func(j *Job) { j.Design[0].Apply = []bool{} }, ErrMaskLength},
		{"bad spacing", func(j *Job) { j.Design[0].Spacing = "log" }, ErrUnknownSpacing},
		{"no parameters", func(j *Job) { j.ParameterList = nil }, ErrEmptyList},
		{"no design", func(j *Job) { j.Design = nil }, ErrEmptyList},
		{"unnamed parameter", func(j *Job) { j.ParameterList[0].Name = "" }, ErrMissingKey},
		{"duplicate parameter", func(j *Job) { j.ParameterList[1].Name = j.ParameterList[0].Name }, ErrDuplicateName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := validJob()
			tc.mutate(job)
			assert.ErrorIs(t, Validate(job), tc.want)
			assert.False(t, IsValid(job))
		})
	}
}

func TestValidate_DoesNotCrossCheckNames(t *testing.T) {
	job := validJob()
	job.Design[0].Name = "not_a_parameter"
	assert.NoError(t, Validate(job))
}

func TestMask(t *testing.T) {
	job := validJob()
	assert.Equal(t, []bool{false, false, true, false, false}, job.Mask(job.Design[0]))
	assert.Equal(t, []bool{true, true, true, true, true}, job.Mask(job.Design[1]))
}

func TestLoad_RoundTripFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"job.json", "job.yaml"} {
		path := filepath.Join(dir, name)
		data, err := Encode(validJob(), FormatFromPath(path))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		job, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, validJob(), job, name)
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
