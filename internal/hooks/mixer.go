package hooks

import "gonum.org/v1/gonum/mat"

// MixDemographics is the demographic order of the interaction matrix.
var MixDemographics = []string{"genpop", "asymp", "hospital", "critical"}

// InteractionMatrix returns the force-of-infection mixing matrix: only the
// general population is infected, by itself and by the asymptomatic,
// hospital and critical groups in proportion GP_A, GP_H and GP_C.
func InteractionMatrix(p UserParams) (*mat.Dense, error) {
	row := []float64{1, 0, 0, 0}
	for i, name := range []string{"GP_A", "GP_H", "GP_C"} {
		v, err := value(p, name)
		if err != nil {
			return nil, err
		}
		row[i+1] = v
	}
	n := len(MixDemographics)
	m := mat.NewDense(n, n, nil)
	m.SetRow(0, row)
	return m, nil
}
