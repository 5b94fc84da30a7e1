package population

import "golang.org/x/exp/rand"

// PooledModel assumes one shared parameter value for every individual.
//
// The shared value occupies a single top-level slot; no bottom-level slots
// are created, which structurally rules out inconsistent per-individual
// values. The log-density contribution is therefore zero.
type PooledModel struct{}

var _ PopulationModel = PooledModel{}

// NewPooledModel creates a pooled population model.
func NewPooledModel() PooledModel {
	return PooledModel{}
}

// NHierarchical returns (0, 1): no per-individual slots, one shared slot.
func (PooledModel) NHierarchical(n int) (int, int) { return 0, 1 }

// NParameters returns 1.
func (PooledModel) NParameters() int { return 1 }

// ParameterNames returns the ordered top-level parameter names.
func (PooledModel) ParameterNames() []string { return []string{"Pooled"} }

// LogPDF returns 0 when the individual values match the shared value, and
// -Inf otherwise. The inference code never creates bottom-level slots for a
// pooled parameter, so the -Inf branch only guards direct misuse.
func (PooledModel) LogPDF(individuals, hyper []float64) float64 {
	for _, value := range individuals {
		if value != hyper[0] {
			return negInf
		}
	}

	return 0
}

// Sample returns n copies of the shared value.
func (PooledModel) Sample(_ *rand.Rand, hyper []float64, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = hyper[0]
	}

	return samples
}
