package hooks

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WardCSVExtractor writes the infected count of every ward, one line per
// day, prefixed by the run's disease parameters.
type WardCSVExtractor struct {
	// Name is the network name; it is folded into the file name.
	Name string
	w    io.Writer
}

// FileName is the trajectory file written into the run folder.
func (e *WardCSVExtractor) FileName() string {
	name := ""
	if e.Name != "" {
		name = "_" + strings.ReplaceAll(e.Name, " ", "_")
	}
	return fmt.Sprintf("wards_trajectory%s_I.csv", name)
}

// Extract appends today's line, writing the header first on day 0.
func (e *WardCSVExtractor) Extract(out OutputDir, c Clock, d DiseaseSource, wards WardCounts) error {
	if e.w == nil {
		w, err := out.Open(e.FileName())
		if err != nil {
			return err
		}
		e.w = w
	}
	infected := wards.InfectedInWards()

	var b strings.Builder
	if c.Day() == 0 {
		fields := []string{"day"}
		fields = appendIdents(fields, "beta", len(d.Beta()))
		fields = appendIdents(fields, "progress", len(d.Progress()))
		fields = appendIdents(fields, "too_ill_to_move", len(d.TooIllToMove()))
		fields = appendIdents(fields, "contrib_foi", len(d.ContribFOI()))
		fields = append(fields, "start_symptom")
		fields = appendIdents(fields, "ward", len(infected))
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	fields := []string{strconv.Itoa(c.Day())}
	for _, vs := range [][]float64{d.Beta(), d.Progress(), d.TooIllToMove(), d.ContribFOI(), {d.StartSymptom()}} {
		for _, v := range vs {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	for _, n := range infected {
		fields = append(fields, strconv.FormatInt(n, 10))
	}
	b.WriteString(strings.Join(fields, ","))
	b.WriteByte('\n')

	_, err := io.WriteString(e.w, b.String())
	return err
}

func appendIdents(fields []string, name string, n int) []string {
	for i := 0; i < n; i++ {
		fields = append(fields, fmt.Sprintf("%s[%d]", name, i))
	}
	return fields
}
