package noise

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// MultiplicativeGaussianErrorModel models measurements with a combined
// constant and multiplicative Gaussian noise term:
//
//	x ~ N(y, (sigma_base + sigma_rel * |y|)^2)
//
// Two parameters: Sigma base, Sigma rel. The total standard deviation must
// be positive at every simulated value; otherwise the log-density is -Inf.
type MultiplicativeGaussianErrorModel struct{}

var _ ErrorModel = MultiplicativeGaussianErrorModel{}

// NewMultiplicativeGaussianErrorModel creates a constant-plus-multiplicative
// Gaussian error model.
func NewMultiplicativeGaussianErrorModel() MultiplicativeGaussianErrorModel {
	return MultiplicativeGaussianErrorModel{}
}

// NParameters returns 2.
func (MultiplicativeGaussianErrorModel) NParameters() int { return 2 }

// ParameterNames returns the ordered parameter names.
func (MultiplicativeGaussianErrorModel) ParameterNames() []string {
	return []string{"Sigma base", "Sigma rel"}
}

// LogLikelihood returns the summed Gaussian log-density with a simulated-
// value-dependent standard deviation.
func (MultiplicativeGaussianErrorModel) LogLikelihood(parameters, simulated, observations []float64) float64 {
	base, rel := parameters[0], parameters[1]
	if base < 0 || rel < 0 {
		return negInf
	}

	var score float64
	for i, obs := range observations {
		sigma := base + rel*math.Abs(simulated[i])
		if !(sigma > 0) {
			return negInf
		}

		diff := (obs - simulated[i]) / sigma
		score -= log2Pi/2 + math.Log(sigma) + diff*diff/2
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws one measurement around each simulated value.
func (MultiplicativeGaussianErrorModel) Sample(rng *rand.Rand, parameters, simulated []float64) []float64 {
	base, rel := parameters[0], parameters[1]
	samples := make([]float64, len(simulated))
	for i, value := range simulated {
		sigma := base + rel*math.Abs(value)
		dist := distuv.Normal{Mu: value, Sigma: sigma, Src: rng}
		samples[i] = dist.Rand()
	}

	return samples
}
