package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"metawards-uq/internal/aggregate"
	"metawards-uq/internal/csvio"
	"metawards-uq/internal/epi"
)

var (
	ErrNegativeDay   = errors.New("service: cannot extract a negative day")
	ErrMissingRun    = errors.New("service: missing run data")
	ErrTableMismatch = errors.New("service: design and disease tables differ in length")
	ErrWardMismatch  = errors.New("service: trajectory and lookup disagree on ward count")
)

// TrajectoryFiles are tried in order inside each run folder.
var TrajectoryFiles = []string{"wards_trajectory_I.csv.bz2", "wards_trajectory_I.csv"}

type CollateRequest struct {
	DesignPath  string
	DiseasePath string
	DataDir     string
	LookupPath  string
	OutDir      string
	Day         int
	Force       bool
}

type CollateResult struct {
	Runs  int
	Files []string
}

// Collator stitches every run's ward trajectory into per-day ward and local
// authority tables, one row per run.
type Collator struct{}

func NewCollator() *Collator {
	return &Collator{}
}

// RunFolder locates the output folder of one repeat of a disease row.
func RunFolder(dataDir string, diseaseVars []float64, repeat int) (string, error) {
	name := epi.Fingerprint(diseaseVars, repeat, true)
	dir := filepath.Join(dataDir, name)
	for _, f := range TrajectoryFiles {
		path := filepath.Join(dir, f)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrMissingRun)
}

func (c *Collator) Collate(ctx context.Context, req CollateRequest) (*CollateResult, error) {
	if req.Day < 0 {
		return nil, ErrNegativeDay
	}
	designHeader, designRaw, err := csvio.ReadMatrixFile(req.DesignPath)
	if err != nil {
		return nil, err
	}
	vars, cube, repeats, err := SplitRepeats(designHeader, designRaw)
	if err != nil {
		return nil, err
	}
	diseaseHeader, diseaseRaw, err := csvio.ReadMatrixFile(req.DiseasePath)
	if err != nil {
		return nil, err
	}
	_, disease, _, err := SplitRepeats(diseaseHeader, diseaseRaw)
	if err != nil {
		return nil, err
	}
	rows, _ := cube.Dims()
	if dr, _ := disease.Dims(); dr != rows {
		return nil, fmt.Errorf("%d design rows, %d disease rows: %w", rows, dr, ErrTableMismatch)
	}
	lookup, err := aggregate.LoadLookup(req.LookupPath)
	if err != nil {
		return nil, err
	}

	var wardHeader []string
	var wardDay, wardCum, ladDay, ladCum [][]string
	runs := 0
	for i := 0; i < rows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		designVars := formatAll(mat.Row(nil, i, cube))
		diseaseVars := mat.Row(nil, i, disease)
		for r := 1; r <= repeats[i]; r++ {
			path, err := RunFolder(req.DataDir, diseaseVars, r)
			if err != nil {
				return nil, err
			}
			traj, err := aggregate.LoadTrajectory(path)
			if err != nil {
				return nil, err
			}
			if len(traj.Wards) != lookup.NumWards {
				return nil, fmt.Errorf("%s has %d wards, lookup has %d: %w", path, len(traj.Wards), lookup.NumWards, ErrWardMismatch)
			}
			if wardHeader == nil {
				wardHeader = traj.Wards
			}
			if req.Day > traj.LastDay() {
				log.Printf("%s has no day %d, using zeros", path, req.Day)
			}

			instant := traj.At(req.Day)
			cumulative := traj.Cumulative(req.Day)
			ladInstant, err := lookup.Aggregate(instant)
			if err != nil {
				return nil, err
			}
			ladCumulative, err := lookup.Aggregate(cumulative)
			if err != nil {
				return nil, err
			}
			wardDay = append(wardDay, joinRow(designVars, instant))
			wardCum = append(wardCum, joinRow(designVars, cumulative))
			ladDay = append(ladDay, joinRow(designVars, ladInstant))
			ladCum = append(ladCum, joinRow(designVars, ladCumulative))
			runs++
		}
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, err
	}
	wardCols := append(append([]string(nil), vars...), wardHeader...)
	ladCols := append(append([]string(nil), vars...), lookup.Authorities...)
	outputs := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{fmt.Sprintf("wards_by_day_%d.csv", req.Day), wardCols, wardDay},
		{fmt.Sprintf("wards_by_day_cumulative_%d.csv", req.Day), wardCols, wardCum},
		{fmt.Sprintf("lads_by_day_%d.csv", req.Day), ladCols, ladDay},
		{fmt.Sprintf("lads_by_day_cumulative_%d.csv", req.Day), ladCols, ladCum},
	}
	result := &CollateResult{Runs: runs}
	for _, o := range outputs {
		path := filepath.Join(req.OutDir, o.name)
		if err := writeTable(path, req.Force, o.header, o.rows); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	}
	log.Printf("collated %d runs for day %d into %s", runs, req.Day, req.OutDir)
	return result, nil
}

func joinRow(prefix []string, values []int64) []string {
	row := append([]string(nil), prefix...)
	for _, v := range values {
		row = append(row, fmt.Sprint(v))
	}
	return row
}
