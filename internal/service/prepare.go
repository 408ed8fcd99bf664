package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"metawards-uq/internal/csvio"
	"metawards-uq/internal/epi"
	"metawards-uq/internal/store"
)

var (
	ErrNoParameters    = errors.New("service: design has no input parameters")
	ErrScaleMismatch   = errors.New("service: scale limits do not match the design")
	ErrTooFewVariables = errors.New("service: design needs incubation, infectious period and R0 columns")
	ErrInvalidRepeats  = errors.New("service: invalid number of repeats")
)

// DesignKey is the design index column written into every prepared table.
const DesignKey = "design_index"

// DesignTableName is the table that holds the hypercube in the store.
const DesignTableName = "design"

type PrepareRequest struct {
	DesignPath   string
	ScalesPath   string
	DiseasePath  string
	Force        bool
	Epidemiology bool
}

type PrepareResult struct {
	DiseasePath      string
	EpidemiologyPath string
	Rows             int
}

// Preparer turns a [-1, 1] hypercube design into the disease table the
// simulator reads. Its store is optional.
type Preparer struct {
	st *store.Store
}

func NewPreparer(st *store.Store) *Preparer {
	return &Preparer{st: st}
}

// Scales holds per-variable limits.
type Scales struct {
	Names []string
	Min   []float64
	Max   []float64
}

// LoadScales reads a limits file: a header of variable names, then a row of
// minimums and a row of maximums.
func LoadScales(path string) (*Scales, error) {
	header, m, err := csvio.ReadMatrixFile(path)
	if err != nil {
		return nil, err
	}
	if m == nil || m.RawMatrix().Rows < 2 {
		return nil, fmt.Errorf("%s needs a minimum and a maximum row: %w", path, ErrScaleMismatch)
	}
	return &Scales{Names: header, Min: mat.Row(nil, 0, m), Max: mat.Row(nil, 1, m)}, nil
}

// Align returns the limits in the order of vars.
func (s *Scales) Align(vars []string) ([]float64, []float64, error) {
	if len(s.Names) != len(vars) {
		return nil, nil, fmt.Errorf("%d limits for %d design variables: %w", len(s.Names), len(vars), ErrScaleMismatch)
	}
	index := make(map[string]int, len(s.Names))
	for i, n := range s.Names {
		index[n] = i
	}
	mins := make([]float64, len(vars))
	maxs := make([]float64, len(vars))
	for j, v := range vars {
		i, ok := index[v]
		if !ok {
			return nil, nil, fmt.Errorf("no limits for %s: %w", v, ErrScaleMismatch)
		}
		mins[j], maxs[j] = s.Min[i], s.Max[i]
	}
	return mins, maxs, nil
}

// SplitRepeats separates the trailing repeats column of a design.
func SplitRepeats(header []string, m *mat.Dense) ([]string, *mat.Dense, []int, error) {
	if len(header) < 2 || m == nil {
		return nil, nil, nil, ErrNoParameters
	}
	r, c := m.Dims()
	repeats := make([]int, r)
	for i := 0; i < r; i++ {
		repeats[i] = int(m.At(i, c-1))
		if repeats[i] < 1 {
			return nil, nil, nil, fmt.Errorf("row %d repeats=%d: %w", i, repeats[i], ErrInvalidRepeats)
		}
	}
	data := mat.DenseCopyOf(m.Slice(0, r, 0, c-1))
	return header[:c-1], data, repeats, nil
}

// Prepare rescales the hypercube, derives the disease parameters from the
// first three variables (incubation, infectious period, R0) and writes the
// disease table and, on request, the epidemiology table next to it.
func (p *Preparer) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	header, raw, err := csvio.ReadMatrixFile(req.DesignPath)
	if err != nil {
		return nil, err
	}
	vars, cube, repeats, err := SplitRepeats(header, raw)
	if err != nil {
		return nil, err
	}
	if len(vars) < 3 {
		return nil, ErrTooFewVariables
	}
	scales, err := LoadScales(req.ScalesPath)
	if err != nil {
		return nil, err
	}
	mins, maxs, err := scales.Align(vars)
	if err != nil {
		return nil, err
	}
	scaled, err := epi.ScaleHypercube(cube, mins, maxs)
	if err != nil {
		return nil, err
	}

	rows, _ := cube.Dims()
	diseaseHeader := []string{"." + DesignKey}
	for _, v := range vars {
		diseaseHeader = append(diseaseHeader, "."+v)
	}
	diseaseHeader = append(append(diseaseHeader, epi.DiseaseHeader...), "repeats")
	epiHeader := append(append([]string{"." + DesignKey}, vars...), "repeats")

	diseaseRows := make([][]string, rows)
	epiRows := make([][]string, rows)
	for i := 0; i < rows; i++ {
		d, err := epi.ToDisease(scaled.At(i, 0), scaled.At(i, 1), scaled.At(i, 2))
		if err != nil {
			return nil, fmt.Errorf("design row %d: %w", i, err)
		}
		index := strconv.Itoa(i)
		rep := strconv.Itoa(repeats[i])
		diseaseRows[i] = append(append(append([]string{index}, formatAll(mat.Row(nil, i, cube))...), formatAll(d.Values())...), rep)
		epiRows[i] = append(append([]string{index}, formatAll(mat.Row(nil, i, scaled))...), rep)
	}

	result := &PrepareResult{DiseasePath: req.DiseasePath, Rows: rows}
	if req.Epidemiology {
		result.EpidemiologyPath = strings.TrimSuffix(req.DiseasePath, filepath.Ext(req.DiseasePath)) + "_epidemiology.csv"
	}
	write := func() error {
		if err := writeTable(req.DiseasePath, req.Force, diseaseHeader, diseaseRows); err != nil {
			return err
		}
		if req.Epidemiology {
			return writeTable(result.EpidemiologyPath, req.Force, epiHeader, epiRows)
		}
		return nil
	}

	if p.st == nil {
		if err := write(); err != nil {
			return nil, err
		}
	} else {
		// a failed write rolls the design table back
		err := p.st.Transaction(ctx, func(tx *store.Store) error {
			if err := storeDesign(ctx, tx, vars, cube, req.Force); err != nil {
				return err
			}
			return write()
		})
		if err != nil {
			return nil, err
		}
		log.Printf("stored %d design points in table %s", rows, DesignTableName)
	}

	log.Printf("prepared %d design points into %s", rows, req.DiseasePath)
	return result, nil
}

func storeDesign(ctx context.Context, st *store.Store, vars []string, cube *mat.Dense, force bool) error {
	if force {
		if err := st.ReplaceDesignTable(ctx, DesignTableName, DesignKey, vars); err != nil {
			return err
		}
	} else {
		if st.HasTable(DesignTableName) {
			return fmt.Errorf("table %s: %w", DesignTableName, csvio.ErrOutputExists)
		}
		if err := st.CreateDesignTable(ctx, DesignTableName, DesignKey, vars); err != nil {
			return err
		}
	}
	return st.InsertDesignRows(ctx, DesignTableName, DesignKey, vars, cube)
}

func formatAll(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

func writeTable(path string, force bool, header []string, rows [][]string) error {
	f, err := csvio.CreateFile(path, force)
	if err != nil {
		return err
	}
	if err := csvio.WriteRecords(f, header, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ScaleDesign writes the hypercube design rescaled onto the limits, keeping
// the repeats column.
func ScaleDesign(designPath, scalesPath, outPath string, force bool) error {
	header, raw, err := csvio.ReadMatrixFile(designPath)
	if err != nil {
		return err
	}
	vars, cube, repeats, err := SplitRepeats(header, raw)
	if err != nil {
		return err
	}
	scales, err := LoadScales(scalesPath)
	if err != nil {
		return err
	}
	mins, maxs, err := scales.Align(vars)
	if err != nil {
		return err
	}
	scaled, err := epi.ScaleHypercube(cube, mins, maxs)
	if err != nil {
		return err
	}
	r, c := scaled.Dims()
	out := mat.NewDense(r, c+1, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(scaled)
	for i, n := range repeats {
		out.Set(i, c, float64(n))
	}
	return csvio.WriteMatrixFile(outPath, force, append(append([]string(nil), vars...), "repeats"), out)
}

// TransformEpidemiology converts an epidemiology table (incubation,
// infectious period, R0, ..., repeats) into a disease table.
func TransformEpidemiology(inPath, outPath string, force bool) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()
	header, raw, err := csvio.ReadMatrix(f)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	vars, data, repeats, err := SplitRepeats(header, raw)
	if err != nil {
		return err
	}
	if len(vars) < 3 {
		return ErrTooFewVariables
	}

	out := []string{"." + DesignKey}
	for _, v := range vars {
		out = append(out, "."+v)
	}
	out = append(append(out, epi.DiseaseHeader...), "repeats")

	rows, _ := data.Dims()
	records := make([][]string, rows)
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, data)
		d, err := epi.ToDisease(row[0], row[1], row[2])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		records[i] = append(append(append([]string{strconv.Itoa(i)}, formatAll(row)...), formatAll(d.Values())...), strconv.Itoa(repeats[i]))
	}
	return writeTable(outPath, force, out, records)
}
