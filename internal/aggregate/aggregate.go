// Package aggregate collates per-ward simulator trajectories into per-day
// ward and local authority tables.
package aggregate

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"metawards-uq/internal/csvio"
)

var (
	ErrNoWards     = errors.New("aggregate: trajectory has no ward columns")
	ErrUnknownWard = errors.New("aggregate: lookup references a ward missing from the trajectory")
	ErrLookup      = errors.New("aggregate: lookup needs FID and LAD11NM columns")
)

// Trajectory is one run's infected count per ward (ward 1 first) per day.
type Trajectory struct {
	Wards []string
	// Days[d][w] is the count for ward w on day d.
	Days [][]int64
}

// LastDay returns the last recorded day, or -1 when empty.
func (t *Trajectory) LastDay() int {
	return len(t.Days) - 1
}

// At returns the counts for day; days past the end are all zero.
func (t *Trajectory) At(day int) []int64 {
	out := make([]int64, len(t.Wards))
	if day >= 0 && day < len(t.Days) {
		copy(out, t.Days[day])
	}
	return out
}

// Cumulative sums the counts from day 0 through day.
func (t *Trajectory) Cumulative(day int) []int64 {
	out := make([]int64, len(t.Wards))
	for d := 0; d <= day && d < len(t.Days); d++ {
		for w, v := range t.Days[d] {
			out[w] += v
		}
	}
	return out
}

// LoadTrajectory reads a ward trajectory CSV, bzip2 compressed when the name
// ends in ".bz2". Columns other than ward[1..n] are ignored.
func LoadTrajectory(path string) (*Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		r = bzip2.NewReader(f)
	}
	t, err := ReadTrajectory(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTrajectory parses trajectory CSV text.
func ReadTrajectory(r io.Reader) (*Trajectory, error) {
	header, records, err := csvio.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	var cols []int
	t := &Trajectory{}
	for i, h := range header {
		if strings.HasPrefix(h, "ward[") && h != "ward[0]" {
			cols = append(cols, i)
			t.Wards = append(t.Wards, h)
		}
	}
	if len(cols) == 0 {
		return nil, ErrNoWards
	}
	for n, rec := range records {
		row := make([]int64, len(cols))
		for j, c := range cols {
			if c >= len(rec) {
				return nil, fmt.Errorf("day row %d is short: %w", n, csvio.ErrParse)
			}
			v, err := strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, fmt.Errorf("day row %d %s %q: %w", n, header[c], rec[c], csvio.ErrParse)
			}
			row[j] = int64(v)
		}
		t.Days = append(t.Days, row)
	}
	return t, nil
}

// Lookup groups wards into local authorities.
type Lookup struct {
	// Authorities is sorted by name.
	Authorities []string
	// Wards[i] lists the ward ids (FID) of Authorities[i].
	Wards [][]int
	// NumWards is the number of rows in the lookup.
	NumWards int
}

// LoadLookup reads a ward lookup CSV with FID and LAD11NM columns.
func LoadLookup(path string) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := ReadLookup(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ReadLookup parses lookup CSV text.
func ReadLookup(r io.Reader) (*Lookup, error) {
	header, records, err := csvio.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	fid, lad := -1, -1
	for i, h := range header {
		switch h {
		case "FID":
			fid = i
		case "LAD11NM":
			lad = i
		}
	}
	if fid < 0 || lad < 0 {
		return nil, ErrLookup
	}

	groups := map[string][]int{}
	for n, rec := range records {
		id, err := strconv.Atoi(strings.TrimSpace(rec[fid]))
		if err != nil {
			return nil, fmt.Errorf("lookup row %d FID %q: %w", n+1, rec[fid], csvio.ErrParse)
		}
		groups[rec[lad]] = append(groups[rec[lad]], id)
	}

	l := &Lookup{NumWards: len(records)}
	for name := range groups {
		l.Authorities = append(l.Authorities, name)
	}
	sort.Strings(l.Authorities)
	for _, name := range l.Authorities {
		l.Wards = append(l.Wards, groups[name])
	}
	return l, nil
}

// Aggregate sums ward values (ward 1 at index 0) per authority.
func (l *Lookup) Aggregate(wards []int64) ([]int64, error) {
	out := make([]int64, len(l.Authorities))
	for i, ids := range l.Wards {
		for _, id := range ids {
			if id < 1 || id > len(wards) {
				return nil, fmt.Errorf("ward %d: %w", id, ErrUnknownWard)
			}
			out[i] += wards[id-1]
		}
	}
	return out, nil
}

// CumulativeSeries returns the running totals of t for days 0 through day.
func CumulativeSeries(t *Trajectory, day int) [][]int64 {
	if day < 0 {
		return nil
	}
	out := make([][]int64, 0, day+1)
	running := make([]int64, len(t.Wards))
	for d := 0; d <= day; d++ {
		for w, v := range t.At(d) {
			running[w] += v
		}
		out = append(out, append([]int64(nil), running...))
	}
	return out
}
