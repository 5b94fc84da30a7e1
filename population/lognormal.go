package population

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogNormalModel assumes the parameter is log-normally distributed across
// individuals:
//
//	log psi_i ~ N(mu_log, sigma_log^2)
//
// Two hyperparameters: Log mean, Log std. Individual values must be
// positive.
type LogNormalModel struct{}

var _ LocationScaleModel = LogNormalModel{}

// NewLogNormalModel creates a log-normal population model.
func NewLogNormalModel() LogNormalModel {
	return LogNormalModel{}
}

// NHierarchical returns (n, 2).
func (LogNormalModel) NHierarchical(n int) (int, int) { return n, 2 }

// NParameters returns 2.
func (LogNormalModel) NParameters() int { return 2 }

// ParameterNames returns the ordered top-level parameter names.
func (LogNormalModel) ParameterNames() []string { return []string{"Log mean", "Log std."} }

// LogPDF returns the summed log-normal log-density of the individual
// values. A non-positive scale or individual value yields -Inf.
func (l LogNormalModel) LogPDF(individuals, hyper []float64) float64 {
	muLog, sigmaLog := hyper[0], hyper[1]
	if !(sigmaLog > 0) {
		return negInf
	}

	var score float64
	for _, psi := range individuals {
		score += l.logPDFOne(psi, muLog, sigmaLog)
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws n individual values from LN(mu_log, sigma_log^2).
func (l LogNormalModel) Sample(rng *rand.Rand, hyper []float64, n int) []float64 {
	muLog, sigmaLog := hyper[0], hyper[1]
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = l.sampleOne(rng, muLog, sigmaLog)
	}

	return samples
}

func (LogNormalModel) logPDFOne(x, location, scale float64) float64 {
	if !(x > 0) || !(scale > 0) {
		return negInf
	}

	logX := math.Log(x)
	diff := (logX - location) / scale
	return -log2Pi/2 - math.Log(scale) - logX - diff*diff/2
}

func (LogNormalModel) sampleOne(rng *rand.Rand, location, scale float64) float64 {
	return distuv.LogNormal{Mu: location, Sigma: scale, Src: rng}.Rand()
}
