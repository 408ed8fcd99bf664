package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metawards-uq/internal/csvio"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	force = false
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestDesignCommand(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte(`disease: ncov
stages: 1
method: latin_hypercube
parameter_list:
  - {name: beta, min: 0.0, max: 0.87}
  - {name: too_ill_to_move, min: 0.0, max: 0.5}
design:
  - {name: beta, samples: 2, spacing: linear}
  - {name: too_ill_to_move, samples: 2, spacing: linear}
`), 0o644))
	out := filepath.Join(dir, "design.csv")

	require.NoError(t, run(t, "design", job, out, "--samples", "6", "--seed", "4"))
	header, m, err := csvio.ReadMatrixFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta[0]", "too_ill_to_move[0]"}, header)
	r, _ := m.Dims()
	assert.Equal(t, 6, r)

	err = run(t, "design", job, out)
	assert.ErrorIs(t, err, csvio.ErrOutputExists)

	require.NoError(t, run(t, "design", "-f", job, out, "--samples", "3"))
}

func TestCommandArgs(t *testing.T) {
	assert.Error(t, run(t, "design", "only-one"))
	assert.Error(t, run(t, "collate", "a", "b", "c", "d", "e", "notaday"))
	assert.Error(t, run(t, "serve", "extra"))
}

func TestTransformCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "epi.csv")
	require.NoError(t, os.WriteFile(in, []byte("incubation,infectious,r_zero,repeats\n4,3,2.4,2\n"), 0o644))
	out := filepath.Join(dir, "disease.csv")

	require.NoError(t, run(t, "transform", in, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "beta[2]")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
