// Package csvio reads and writes the headed, comma separated tables that
// move design matrices between the tools and the simulator.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrOutputExists = errors.New("csvio: output already exists, use force to overwrite")
	ErrEmptyTable   = errors.New("csvio: table has no header")
	ErrParse        = errors.New("csvio: cannot parse value")
)

// CreateFile opens path for writing. Unless force is set an existing file is
// left alone and ErrOutputExists is returned.
func CreateFile(path string, force bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return f, nil
}

// FormatFloat renders a value with six decimals.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteMatrix writes header followed by one line per row of m.
func WriteMatrix(w io.Writer, header []string, m mat.Matrix) error {
	r, c := m.Dims()
	if len(header) != c {
		return fmt.Errorf("header has %d names for %d columns", len(header), c)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = FormatFloat(m.At(i, j))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecords writes header and pre-formatted records.
func WriteRecords(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// WriteMatrixFile writes m to path, honouring force.
func WriteMatrixFile(path string, force bool, header []string, m mat.Matrix) error {
	f, err := CreateFile(path, force)
	if err != nil {
		return err
	}
	if err := WriteMatrix(f, header, m); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadRecords reads a headed table as strings. A leading "# " on the header
// line is tolerated.
func ReadRecords(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, nil, ErrEmptyTable
	}
	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "# ")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, records[1:], nil
}

// ReadMatrix reads a headed numeric table.
func ReadMatrix(r io.Reader) ([]string, *mat.Dense, error) {
	header, records, err := ReadRecords(r)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return header, nil, nil
	}
	cols := len(header)
	data := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		if len(rec) != cols {
			return nil, nil, fmt.Errorf("row %d has %d fields, header has %d: %w", i+1, len(rec), cols, ErrParse)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %q: %w", i+1, header[j], field, ErrParse)
			}
			data = append(data, v)
		}
	}
	return header, mat.NewDense(len(records), cols, data), nil
}

// ReadMatrixFile opens and reads a numeric table.
func ReadMatrixFile(path string) ([]string, *mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	header, m, err := ReadMatrix(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return header, m, nil
}
