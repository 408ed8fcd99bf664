package hooks

import "fmt"

// Move transfers Fraction of demographic From at stage FromStage into
// demographic To at stage ToStage.
type Move struct {
	From      string
	To        string
	FromStage int
	ToStage   int
	Fraction  float64
}

// Stager performs one move on the simulator.
type Stager interface {
	GoStage(m Move) error
}

// ApplyMoves runs moves in order. Order matters: later fractions act on
// what earlier moves left behind.
func ApplyMoves(s Stager, moves []Move) error {
	for _, m := range moves {
		if err := s.GoStage(m); err != nil {
			return fmt.Errorf("move %s[%d] -> %s[%d]: %w", m.From, m.FromStage, m.To, m.ToStage, err)
		}
	}
	return nil
}

func fractions(p UserParams, names ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	for _, n := range names {
		v, err := value(p, n)
		if err != nil {
			return nil, err
		}
		if err := checkFraction(n, v); err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

func checkFraction(name string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%s=%g: %w", name, v, ErrInvalidFraction)
	}
	return nil
}

// DerivedMoves builds the pathway moves from pEA, pIH, pHC, pHR, pCR and pIR.
// Deaths from I and recoveries from H are derived, since each acts on the
// remainder of an earlier move.
func DerivedMoves(p UserParams) ([]Move, error) {
	f, err := fractions(p, "pEA", "pIH", "pHC", "pHR", "pCR", "pIR")
	if err != nil {
		return nil, err
	}
	if f["pIH"] == 1 || f["pHC"] == 1 {
		return nil, fmt.Errorf("pIH=%g pHC=%g leave no remainder: %w", f["pIH"], f["pHC"], ErrInvalidFraction)
	}
	pID := 1 - f["pIR"]/(1-f["pIH"])
	if err := checkFraction("pID", pID); err != nil {
		return nil, err
	}
	pHR2 := f["pHR"] / (1 - f["pHC"])
	if err := checkFraction("pHR2", pHR2); err != nil {
		return nil, err
	}

	return []Move{
		{"genpop", "asymp", 1, 2, f["pEA"]},
		{"asymp", "genpop", 3, 4, 1},
		{"genpop", "hospital", 3, 2, f["pIH"]},
		{"genpop", "genpop", 3, 5, pID},
		{"hospital", "critical", 3, 2, f["pHC"]},
		{"hospital", "genpop", 3, 4, pHR2},
		{"hospital", "genpop", 3, 5, 1},
		{"critical", "genpop", 3, 4, f["pCR"]},
		{"critical", "genpop", 3, 5, 1},
	}, nil
}

// DirectMoves builds the pathway moves from explicit fractions, sending
// deaths to a separate morgue demographic.
func DirectMoves(p UserParams) ([]Move, error) {
	f, err := fractions(p, "pEA", "pIH", "pID", "pHC", "pHR", "pCR", "pHD", "pCD")
	if err != nil {
		return nil, err
	}
	return []Move{
		{"genpop", "hospital", 3, 2, f["pIH"]},
		{"genpop", "morgue", 3, 4, f["pID"]},
		{"hospital", "genpop", 3, 4, f["pHR"]},
		{"hospital", "morgue", 3, 4, f["pHD"]},
		{"hospital", "critical", 3, 2, f["pHC"]},
		{"critical", "genpop", 3, 4, f["pCR"]},
		{"critical", "morgue", 3, 4, f["pCD"]},
		{"asymp", "genpop", 3, 4, 1},
		{"genpop", "asymp", 1, 2, f["pEA"]},
	}, nil
}
