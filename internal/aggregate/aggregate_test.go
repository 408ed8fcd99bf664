package aggregate

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trajectory = `day,beta[0],progress[0],start_symptom,ward[0],ward[1],ward[2],ward[3]
0,0.5,1,2,0,1,0,0
1,0.5,1,2,0,2,1,0
2,0.5,1,2,0,3,2,1
`

const lookup = `FID,WD11NM,LAD11NM
1,"North, Upper",Beta Town
2,South,Alpha City
3,East,Beta Town
`

func TestReadTrajectory(t *testing.T) {
	tr, err := ReadTrajectory(strings.NewReader(trajectory))
	require.NoError(t, err)
	assert.Equal(t, []string{"ward[1]", "ward[2]", "ward[3]"}, tr.Wards)
	assert.Equal(t, 2, tr.LastDay())
	assert.Equal(t, []int64{2, 1, 0}, tr.At(1))
	assert.Equal(t, []int64{0, 0, 0}, tr.At(10))
	assert.Equal(t, []int64{3, 1, 0}, tr.Cumulative(1))
	assert.Equal(t, []int64{6, 3, 1}, tr.Cumulative(10))

	_, err = ReadTrajectory(strings.NewReader("day,ward[0]\n0,1\n"))
	assert.ErrorIs(t, err, ErrNoWards)
}

func TestCumulativeSeries(t *testing.T) {
	tr, err := ReadTrajectory(strings.NewReader(trajectory))
	require.NoError(t, err)
	series := CumulativeSeries(tr, 3)
	require.Len(t, series, 4)
	assert.Equal(t, []int64{1, 0, 0}, series[0])
	assert.Equal(t, []int64{6, 3, 1}, series[3])
}

func TestLookup(t *testing.T) {
	l, err := ReadLookup(strings.NewReader(lookup))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha City", "Beta Town"}, l.Authorities)
	assert.Equal(t, 3, l.NumWards)

	got, err := l.Aggregate([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, got)

	_, err = l.Aggregate([]int64{1})
	assert.ErrorIs(t, err, ErrUnknownWard)

	_, err = ReadLookup(strings.NewReader("A,B\n1,2\n"))
	assert.ErrorIs(t, err, ErrLookup)
}

func TestLoadTrajectory_Bzip2(t *testing.T) {
	bz, err := exec.LookPath("bzip2")
	if err != nil {
		t.Skip("bzip2 not installed")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "wards_trajectory_I.csv")
	require.NoError(t, os.WriteFile(path, []byte(trajectory), 0o644))
	require.NoError(t, exec.Command(bz, path).Run())

	tr, err := LoadTrajectory(path + ".bz2")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, tr.At(2))
}
