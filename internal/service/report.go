package service

import (
	"fmt"
	"strings"
	"time"

	"metawards-uq/internal/model"
)

func RenderDesignSummary(rec *model.Design, result *DesignResult) string {
	var b strings.Builder
	b.WriteString("# Design summary\n\n")
	b.WriteString(fmt.Sprintf("- uid: %s\n", rec.UID))
	b.WriteString(fmt.Sprintf("- disease: %s\n", rec.Disease))
	b.WriteString(fmt.Sprintf("- method: %s\n", rec.Method))
	b.WriteString(fmt.Sprintf("- stages: %d\n", rec.Stages))
	b.WriteString(fmt.Sprintf("- rows: %d\n", rec.Rows))
	b.WriteString(fmt.Sprintf("- columns: %d\n", rec.Columns))
	if rec.Seed != 0 {
		b.WriteString(fmt.Sprintf("- seed: %d\n", rec.Seed))
	}
	b.WriteString(fmt.Sprintf("- created_at: %s\n\n", rec.CreatedAt.Format(time.RFC3339)))

	b.WriteString("## Columns\n\n")
	b.WriteString("| column | levels | min | max | mean | sd |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, s := range result.Stats {
		b.WriteString(fmt.Sprintf("| %s | %d | %.6f | %.6f | %.6f | %.6f |\n",
			s.Name, s.Levels, s.Min, s.Max, s.Mean, s.StdDev))
	}
	b.WriteString("\n")

	if st := result.Stratification; st != nil {
		b.WriteString("## Stratification\n\n")
		if st.OK {
			b.WriteString(fmt.Sprintf("- every column has one point in each of %d strata\n", st.Strata))
		} else {
			for _, s := range result.Stats {
				if n := st.Covered[s.Name]; n != st.Strata {
					b.WriteString(fmt.Sprintf("- %s: %d of %d strata covered once\n", s.Name, n, st.Strata))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		max := len(result.Errors)
		if max > 20 {
			max = 20
		}
		for i := 0; i < max; i++ {
			b.WriteString(fmt.Sprintf("- %s\n", result.Errors[i]))
		}
		if len(result.Errors) > max {
			b.WriteString(fmt.Sprintf("- ...(%d more)\n", len(result.Errors)-max))
		}
	}
	return b.String()
}
