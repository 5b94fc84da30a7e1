package population

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TruncatedGaussianModel assumes the parameter is normally distributed
// across individuals, truncated to non-negative values:
//
//	psi_i ~ N(mu, sigma^2) restricted to psi_i >= 0
//
// Two hyperparameters: Mu, Sigma. Negative individual values or a
// non-positive sigma yield -Inf.
type TruncatedGaussianModel struct{}

var _ LocationScaleModel = TruncatedGaussianModel{}

// NewTruncatedGaussianModel creates a non-negative truncated Gaussian
// population model.
func NewTruncatedGaussianModel() TruncatedGaussianModel {
	return TruncatedGaussianModel{}
}

// NHierarchical returns (n, 2).
func (TruncatedGaussianModel) NHierarchical(n int) (int, int) { return n, 2 }

// NParameters returns 2.
func (TruncatedGaussianModel) NParameters() int { return 2 }

// ParameterNames returns the ordered top-level parameter names.
func (TruncatedGaussianModel) ParameterNames() []string { return []string{"Mu", "Sigma"} }

// LogPDF returns the summed truncated-Gaussian log-density of the
// individual values.
func (t TruncatedGaussianModel) LogPDF(individuals, hyper []float64) float64 {
	mu, sigma := hyper[0], hyper[1]
	if !(sigma > 0) {
		return negInf
	}

	var score float64
	for _, psi := range individuals {
		score += t.logPDFOne(psi, mu, sigma)
		if math.IsInf(score, -1) {
			return negInf
		}
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws n individual values by rejection from the parent Gaussian.
func (t TruncatedGaussianModel) Sample(rng *rand.Rand, hyper []float64, n int) []float64 {
	mu, sigma := hyper[0], hyper[1]
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = t.sampleOne(rng, mu, sigma)
	}

	return samples
}

func (TruncatedGaussianModel) logPDFOne(x, location, scale float64) float64 {
	if x < 0 || !(scale > 0) {
		return negInf
	}

	// Normalization: P(X >= 0) = 1 - Phi(-location/scale) for the parent
	// Gaussian.
	parent := distuv.Normal{Mu: location, Sigma: scale}
	mass := 1 - parent.CDF(0)
	if !(mass > 0) {
		return negInf
	}

	diff := (x - location) / scale
	return -log2Pi/2 - math.Log(scale) - diff*diff/2 - math.Log(mass)
}

func (TruncatedGaussianModel) sampleOne(rng *rand.Rand, location, scale float64) float64 {
	parent := distuv.Normal{Mu: location, Sigma: scale, Src: rng}
	for {
		if x := parent.Rand(); x >= 0 {
			return x
		}
	}
}
