package hooks

import (
	"fmt"
	"time"
)

// RateRule chooses how the infection scale rate follows the lockdown state.
type RateRule int

const (
	// RateDirect uses scale_rate[state].
	RateDirect RateRule = iota
	// RateCompound uses 1 before the first date, scale_rate[1] after it and
	// 1 - (1 - scale_rate[1]) * scale_rate[2] after the second.
	RateCompound
)

// LockdownState is the control regime in force on one day.
type LockdownState struct {
	State   int
	Rate    float64
	CanWork bool
}

// Lockdown switches the simulator into reduced contact once the configured
// lockdown dates pass.
type Lockdown struct {
	Rule RateRule
}

// LockdownDates reads lockdown_date_{1,2}_{year,month,day}.
func LockdownDates(p UserParams) (time.Time, time.Time, error) {
	var dates [2]time.Time
	for i := range dates {
		var ymd [3]int
		for j, part := range []string{"year", "month", "day"} {
			v, err := value(p, fmt.Sprintf("lockdown_date_%d_%s", i+1, part))
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			ymd[j] = int(v)
		}
		dates[i] = time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	}
	return dates[0], dates[1], nil
}

// Evaluate returns the regime in force on date.
func (l Lockdown) Evaluate(p UserParams, date time.Time) (LockdownState, error) {
	first, second, err := LockdownDates(p)
	if err != nil {
		return LockdownState{}, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	st := LockdownState{}
	if !day.Before(first) {
		st.State++
	}
	if !day.Before(second) {
		st.State++
	}

	switch l.Rule {
	case RateCompound:
		st.Rate = 1
		if st.State >= 1 {
			s1, err := element(p, "scale_rate", 1)
			if err != nil {
				return LockdownState{}, err
			}
			st.Rate = s1
			if st.State == 2 {
				s2, err := element(p, "scale_rate", 2)
				if err != nil {
					return LockdownState{}, err
				}
				st.Rate = 1 - (1-s1)*s2
			}
		}
	default:
		if st.Rate, err = element(p, "scale_rate", st.State); err != nil {
			return LockdownState{}, err
		}
	}

	cw, err := element(p, "can_work", st.State)
	if err != nil {
		return LockdownState{}, err
	}
	st.CanWork = cw != 0
	return st, nil
}

// Iterate returns the step functions for today: the host's working week
// before the first lockdown, a single reduced-contact step after it.
func (l Lockdown) Iterate(p UserParams, c Clock, a Advancer) ([]AdvanceFunc, error) {
	st, err := l.Evaluate(p, c.Date())
	if err != nil {
		return nil, err
	}
	if st.State == 0 {
		return a.WorkingWeek(), nil
	}
	return []AdvanceFunc{func() error {
		if err := a.AdvanceInfProb(st.Rate); err != nil {
			return err
		}
		if err := a.AdvancePlay(); err != nil {
			return err
		}
		if st.CanWork {
			return a.AdvanceFixed()
		}
		return nil
	}}, nil
}
