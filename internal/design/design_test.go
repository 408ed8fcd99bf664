package design

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"metawards-uq/internal/jobfile"
)

func betaJob(spacing string) *jobfile.Job {
	return &jobfile.Job{
		Disease:       "ncov",
		Stages:        1,
		Method:        jobfile.NewMethod(jobfile.MethodFullFactorial),
		ParameterList: []jobfile.Parameter{{Name: "beta", Min: 0.0, Max: 0.87}},
		Design:        []jobfile.Entry{{Name: "beta", Samples: 2, Spacing: spacing}},
	}
}

func twoEntryJob(method string) *jobfile.Job {
	return &jobfile.Job{
		Disease: "ncov",
		Stages:  5,
		Method:  jobfile.NewMethod(method),
		ParameterList: []jobfile.Parameter{
			{Name: "beta", Min: 0.3, Max: 0.5},
			{Name: "too_ill_to_move", Min: 0.0, Max: 0.5},
		},
		Design: []jobfile.Entry{
			{Name: "beta", Samples: 3, Spacing: jobfile.SpacingLinear, Apply: []bool{false, false, true, false, false}},
			{Name: "too_ill_to_move", Samples: 3, Spacing: jobfile.SpacingLinear, Apply: []bool{false, false, true, false, false}},
		},
	}
}

func TestLinearSpace(t *testing.T) {
	for _, n := range []int{2, 3, 7, 50} {
		v := LinearSpace(-1.5, 4.25, n)
		require.Len(t, v, n)
		assert.Equal(t, -1.5, v[0])
		assert.Equal(t, 4.25, v[n-1])
		assert.True(t, sort.Float64sAreSorted(v))
	}
	assert.Equal(t, []float64{2}, LinearSpace(2, 3, 1))
	assert.Empty(t, LinearSpace(2, 3, 0))
}

func TestLinearSpace_LastPointIsMax(t *testing.T) {
	ranges := [][2]float64{{0.2, 0.9}, {-0.33, 0.91}, {0.1, 0.7}, {0.3, 0.5}, {0, 0.87}}
	for _, r := range ranges {
		for n := 2; n <= 12; n++ {
			v := LinearSpace(r[0], r[1], n)
			assert.Equal(t, r[0], v[0], "range %v n=%d", r, n)
			assert.Equal(t, r[1], v[n-1], "range %v n=%d", r, n)
		}
	}

	m, err := Process(&jobfile.Job{
		Stages:        1,
		Method:        jobfile.NewMethod(jobfile.MethodFullFactorial),
		ParameterList: []jobfile.Parameter{{Name: "beta", Min: 0.2, Max: 0.9}},
		Design:        []jobfile.Entry{{Name: "beta", Samples: 9, Spacing: jobfile.SpacingLinear}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, m.Data.At(8, 0))
}

func TestMidpointSpace(t *testing.T) {
	for _, n := range []int{1, 2, 5, 12} {
		lo, hi := 0.1, 0.9
		v := MidpointSpace(lo, hi, n)
		require.Len(t, v, n)
		centre := (lo + hi) / 2
		for i, x := range v {
			assert.NotEqual(t, lo, x)
			assert.NotEqual(t, hi, x)
			if i > 0 {
				assert.Greater(t, x, v[i-1])
			}
			assert.InDelta(t, centre, (x+v[n-1-i])/2, 1e-12)
		}
	}
	assert.InDeltaSlice(t, []float64{0.2175, 0.6525}, MidpointSpace(0, 0.87, 2), 1e-12)
}

func TestExtractColumns_Mask(t *testing.T) {
	job := &jobfile.Job{
		Stages:        5,
		Method:        jobfile.NewMethod(jobfile.MethodFullFactorial),
		ParameterList: []jobfile.Parameter{{Name: "beta", Min: 0, Max: 1}},
		Design: []jobfile.Entry{{Name: "beta", Samples: 2, Spacing: jobfile.SpacingLinear,
			Apply: []bool{false, false, true, false, false}}},
	}
	cols, err := ExtractColumns(job)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "beta[2]", cols[0].Ident())
}

func TestExtractColumns_SharedStates(t *testing.T) {
	job := betaJob(jobfile.SpacingLinear)
	job.Stages = 3
	cols, err := ExtractColumns(job)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta[0]", "beta[1]", "beta[2]"}, Idents(cols))
	for _, c := range cols {
		assert.Equal(t, []float64{0, 0.87}, c.States)
	}
}

func TestExtractColumns_UnknownParameter(t *testing.T) {
	job := betaJob(jobfile.SpacingLinear)
	job.Design[0].Name = "gamma"
	_, err := ExtractColumns(job)
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = Process(job)
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestGenerate_Scenario1(t *testing.T) {
	m, err := Process(betaJob(jobfile.SpacingLinear))
	require.NoError(t, err)
	assert.Equal(t, "beta[0]", m.HeaderLine())
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, []float64{0.0}, m.Row(0))
	assert.Equal(t, []float64{0.87}, m.Row(1))
}

func TestGenerate_Scenario2(t *testing.T) {
	m, err := Process(betaJob(jobfile.SpacingMidpoint))
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	assert.InDelta(t, 0.2175, m.Data.At(0, 0), 1e-12)
	assert.InDelta(t, 0.6525, m.Data.At(1, 0), 1e-12)
}

func TestGenerate_Scenario3_LastAxisFastest(t *testing.T) {
	m, err := Process(twoEntryJob(jobfile.MethodFullFactorial))
	require.NoError(t, err)
	assert.Equal(t, []string{"beta[2]", "too_ill_to_move[2]"}, m.Header())
	require.Equal(t, 9, m.Rows())

	betas := []float64{0.3, 0.4, 0.5}
	titm := []float64{0.0, 0.25, 0.5}
	for r := 0; r < 9; r++ {
		assert.InDelta(t, betas[r/3], m.Data.At(r, 0), 1e-12, "row %d", r)
		assert.InDelta(t, titm[r%3], m.Data.At(r, 1), 1e-12, "row %d", r)
		assert.Equal(t, []int{r / 3, r % 3}, Levels(m.Columns, r))
	}
}

func TestFullFactorial_RowCountIsProduct(t *testing.T) {
	cols := []Column{
		{Name: "a", States: LinearSpace(0, 1, 2)},
		{Name: "b", States: LinearSpace(0, 1, 3)},
		{Name: "c", States: MidpointSpace(0, 1, 4)},
	}
	d, err := FullFactorial(cols)
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 24, r)
	assert.Equal(t, 3, c)

	_, err = FullFactorial(nil)
	assert.ErrorIs(t, err, ErrNoColumns)
	_, err = FullFactorial([]Column{{Name: "x"}})
	assert.ErrorIs(t, err, ErrEmptyStates)
}

func TestGenerate_FactorialIsDeterministic(t *testing.T) {
	a, err := Process(twoEntryJob(jobfile.MethodFullFactorial))
	require.NoError(t, err)
	b, err := Process(twoEntryJob(jobfile.MethodFullFactorial))
	require.NoError(t, err)
	assert.True(t, mat.Equal(a.Data, b.Data))
	assert.Equal(t, a.HeaderLine(), b.HeaderLine())
}

func TestGenerate_AllStagesMaskedOut(t *testing.T) {
	job := twoEntryJob(jobfile.MethodFullFactorial)
	for i := range job.Design {
		job.Design[i].Apply = make([]bool, 5)
	}
	_, err := Process(job)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestGenerate_UnknownMethod(t *testing.T) {
	job := betaJob(jobfile.SpacingLinear)
	job.Method = jobfile.NewMethod("sobol")
	_, err := Generate(job)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestLatinHypercube_DefaultRowsIsColumnCount(t *testing.T) {
	job := twoEntryJob(jobfile.MethodLatinHypercube)
	job.Design[0].Apply = nil
	job.Design[0].Samples = 7
	m, err := Generate(job, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 6, len(m.Columns))
	assert.Equal(t, 6, m.Rows())
}

func TestLatinHypercube_SampleSources(t *testing.T) {
	job := twoEntryJob(jobfile.MethodLatinHypercube)
	samples := 11
	job.Method.Extended = true
	job.Method.Args.Samples = &samples

	m, err := Generate(job, WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, 11, m.Rows())

	m, err = Generate(job, WithSeed(3), WithSamples(4))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, uint64(3), m.Seed)
}

func TestLatinHypercube_StratifiedWithinLevelExtremes(t *testing.T) {
	cols := []Column{
		{Name: "beta", States: MidpointSpace(0, 1, 4)},
		{Name: "gamma", States: LinearSpace(2, 10, 3)},
	}
	const n = 20
	d, err := LatinHypercube(cols, n, NewRand(99))
	require.NoError(t, err)

	for j, c := range cols {
		lo, hi := c.States[0], c.States[len(c.States)-1]
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			v := d.At(i, j)
			require.GreaterOrEqual(t, v, lo)
			require.LessOrEqual(t, v, hi)
			stratum := int(math.Floor((v - lo) / (hi - lo) * n))
			if stratum == n {
				stratum--
			}
			assert.False(t, seen[stratum], "column %d stratum %d hit twice", j, stratum)
			seen[stratum] = true
		}
	}
}

func TestLatinHypercube_SeedReproducible(t *testing.T) {
	job := twoEntryJob(jobfile.MethodLatinHypercube)
	a, err := Generate(job, WithSeed(7), WithSamples(5))
	require.NoError(t, err)
	b, err := Generate(job, WithSeed(7), WithSamples(5))
	require.NoError(t, err)
	assert.True(t, mat.Equal(a.Data, b.Data))
}

func TestUnitHypercube_BadArgs(t *testing.T) {
	_, err := UnitHypercube(0, 3, NewRand(1))
	assert.ErrorIs(t, err, ErrNoColumns)
	_, err = UnitHypercube(2, 0, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidSamples)
}

func TestFullHeader(t *testing.T) {
	job := twoEntryJob(jobfile.MethodFullFactorial)
	job.Stages = 2
	assert.Equal(t,
		[]string{"beta[0]", "beta[1]", "too_ill_to_move[0]", "too_ill_to_move[1]"},
		FullHeader(job))
}
