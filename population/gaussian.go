package population

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianModel assumes the parameter is normally distributed across
// individuals:
//
//	psi_i ~ N(mean, std^2)
//
// Two hyperparameters: Mean, Std.
type GaussianModel struct{}

var _ LocationScaleModel = GaussianModel{}

// NewGaussianModel creates a Gaussian population model.
func NewGaussianModel() GaussianModel {
	return GaussianModel{}
}

// NHierarchical returns (n, 2): one latent value per individual plus the
// mean and standard deviation hyperparameters.
func (GaussianModel) NHierarchical(n int) (int, int) { return n, 2 }

// NParameters returns 2.
func (GaussianModel) NParameters() int { return 2 }

// ParameterNames returns the ordered top-level parameter names.
func (GaussianModel) ParameterNames() []string { return []string{"Mean", "Std."} }

// LogPDF returns the summed Gaussian log-density of the individual values.
// A non-positive standard deviation yields -Inf.
func (g GaussianModel) LogPDF(individuals, hyper []float64) float64 {
	mean, std := hyper[0], hyper[1]
	if !(std > 0) {
		return negInf
	}

	var score float64
	for _, psi := range individuals {
		score += g.logPDFOne(psi, mean, std)
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws n individual values from N(mean, std^2).
func (g GaussianModel) Sample(rng *rand.Rand, hyper []float64, n int) []float64 {
	mean, std := hyper[0], hyper[1]
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = g.sampleOne(rng, mean, std)
	}

	return samples
}

func (GaussianModel) logPDFOne(x, location, scale float64) float64 {
	if !(scale > 0) {
		return negInf
	}

	diff := (x - location) / scale
	return -log2Pi/2 - math.Log(scale) - diff*diff/2
}

func (GaussianModel) sampleOne(rng *rand.Rand, location, scale float64) float64 {
	return distuv.Normal{Mu: location, Sigma: scale, Src: rng}.Rand()
}
