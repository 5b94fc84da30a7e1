package population

import "golang.org/x/exp/rand"

// HeterogeneousModel assumes a fully independent parameter value for each
// individual.
//
// There are no hyperparameters and no distributional assumption, so the
// log-density contribution is always zero and there is nothing to sample
// from; the per-individual values are free parameters covered directly by
// the prior.
type HeterogeneousModel struct{}

var _ PopulationModel = HeterogeneousModel{}

// NewHeterogeneousModel creates a heterogeneous population model.
func NewHeterogeneousModel() HeterogeneousModel {
	return HeterogeneousModel{}
}

// NHierarchical returns (n, 0): one free slot per individual.
func (HeterogeneousModel) NHierarchical(n int) (int, int) { return n, 0 }

// NParameters returns 0.
func (HeterogeneousModel) NParameters() int { return 0 }

// ParameterNames returns nil.
func (HeterogeneousModel) ParameterNames() []string { return nil }

// LogPDF returns 0; each individual value is free.
func (HeterogeneousModel) LogPDF(individuals, hyper []float64) float64 { return 0 }

// Sample returns nil; a heterogeneous model has no sampling distribution.
func (HeterogeneousModel) Sample(_ *rand.Rand, _ []float64, _ int) []float64 { return nil }
