package population

import (
	"math"

	"golang.org/x/exp/rand"
)

// PopulationModel describes how one model parameter varies across
// individuals.
//
// Implementations must be immutable and safe for concurrent use.
type PopulationModel interface {
	// NHierarchical returns the number of bottom-level (per-individual) and
	// top-level (hyperparameter) slots the model contributes to the flat
	// parameter vector for a cohort of n individuals.
	NHierarchical(n int) (nBottom, nTop int)

	// NParameters returns the number of top-level parameters.
	NParameters() int

	// ParameterNames returns the ordered top-level parameter names. These
	// are hyperparameter prefixes, e.g. "Mean"; the inference code combines
	// them with the model parameter they govern.
	ParameterNames() []string

	// LogPDF returns the joint log-density of the individual-level values
	// given the hyperparameters, or -Inf outside the support. Models
	// without a density (Pooled, Heterogeneous) return 0.
	LogPDF(individuals, hyper []float64) float64

	// Sample draws n individual-level values given the hyperparameters.
	// Models without a sampling distribution return nil.
	Sample(rng *rand.Rand, hyper []float64, n int) []float64
}

// LocationScaleModel is the subset of population models parameterized by a
// location and a scale hyperparameter. It is the closed set of base
// distributions a CovariateModel can shift per individual.
type LocationScaleModel interface {
	PopulationModel

	logPDFOne(x, location, scale float64) float64
	sampleOne(rng *rand.Rand, location, scale float64) float64
}

var negInf = math.Inf(-1)

const log2Pi = 1.8378770664093453 // log(2*pi)
