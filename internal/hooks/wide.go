package hooks

import (
	"context"
	"fmt"

	"metawards-uq/internal/store"
)

// WideChannels lists the infection classes kept per demographic.
var WideChannels = map[string][]int{
	"asymp":    {2, 3, 4},
	"critical": {2, 3, 4, 5},
	"genpop":   {0, 1, 2, 3, 4, 5},
	"hospital": {2, 3, 4, 5},
}

// ChannelName is the wide table column for class j of a demographic.
func ChannelName(demographic string, class int) string {
	return fmt.Sprintf("%s_%d", demographic, class)
}

// WideSession writes per-demographic class totals for each ward into one
// wide table keyed by design, repeat, day and ward. A ward is only written
// once it has seen its first infection.
type WideSession struct {
	st     *store.Store
	table  string
	design int
	repeat int
	seen   map[int]bool
	ready  bool
}

func NewWideSession(st *store.Store, table string, design int, folder string) (*WideSession, error) {
	repeat, err := RepeatFromFolder(folder)
	if err != nil {
		return nil, err
	}
	return &WideSession{st: st, table: table, design: design, repeat: repeat, seen: map[int]bool{}}, nil
}

func (w *WideSession) setup(ctx context.Context, demographics []string) error {
	var channels []string
	for _, d := range demographics {
		for _, j := range WideChannels[d] {
			channels = append(channels, ChannelName(d, j))
		}
	}
	if err := w.st.CreateWideTable(ctx, w.table, channels); err != nil {
		return err
	}
	w.ready = true
	return nil
}

// Extract writes today's totals. Classes 1 and 3 are reported together with
// the class before them.
func (w *WideSession) Extract(ctx context.Context, c Clock, counts DemographicCounts) error {
	demographics := counts.Demographics()
	if !w.ready {
		if err := w.setup(ctx, demographics); err != nil {
			return err
		}
	}

	for i, name := range demographics {
		keep, ok := WideChannels[name]
		if !ok {
			continue
		}
		totals := counts.WardInfTotals(i)
		for k := 1; k <= counts.Wards(); k++ {
			if !w.seen[k] && len(totals) > 0 && totals[0][k] != 0 {
				w.seen[k] = true
			}
			if !w.seen[k] {
				continue
			}
			values := make(map[string]int64, len(keep))
			for _, j := range keep {
				if j >= len(totals) {
					continue
				}
				v := totals[j][k]
				if j == 1 || j == 3 {
					v += totals[j-1][k]
				}
				values[ChannelName(name, j)] = v
			}
			key := store.WideKey{Design: w.design, Repeat: w.repeat, Day: c.Day(), Ward: k}
			if err := w.st.UpsertWide(ctx, w.table, key, values); err != nil {
				return fmt.Errorf("%s ward %d: %w", name, k, err)
			}
		}
	}
	return nil
}
