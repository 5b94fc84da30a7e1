package noise

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianErrorModel models measurements as the simulated value plus
// homoscedastic Gaussian noise:
//
//	x ~ N(y, sigma^2)
//
// One parameter: Sigma.
type GaussianErrorModel struct{}

var _ ErrorModel = GaussianErrorModel{}

// NewGaussianErrorModel creates a Gaussian error model.
func NewGaussianErrorModel() GaussianErrorModel {
	return GaussianErrorModel{}
}

// NParameters returns 1.
func (GaussianErrorModel) NParameters() int { return 1 }

// ParameterNames returns the ordered parameter names.
func (GaussianErrorModel) ParameterNames() []string { return []string{"Sigma"} }

// LogLikelihood returns the summed Gaussian log-density of the observations
// around the simulated series. A non-positive sigma yields -Inf.
func (GaussianErrorModel) LogLikelihood(parameters, simulated, observations []float64) float64 {
	sigma := parameters[0]
	if !(sigma > 0) {
		return negInf
	}

	n := float64(len(observations))
	score := -n * (log2Pi/2 + math.Log(sigma))
	for i, obs := range observations {
		diff := (obs - simulated[i]) / sigma
		score -= diff * diff / 2
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws one measurement around each simulated value.
func (GaussianErrorModel) Sample(rng *rand.Rand, parameters, simulated []float64) []float64 {
	sigma := parameters[0]
	samples := make([]float64, len(simulated))
	for i, value := range simulated {
		dist := distuv.Normal{Mu: value, Sigma: sigma, Src: rng}
		samples[i] = dist.Rand()
	}

	return samples
}
