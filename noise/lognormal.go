package noise

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogNormalErrorModel models measurements as log-normally distributed around
// the simulated value:
//
//	log x ~ N(log y, sigma_log^2)
//
// One parameter: Sigma log. Both the simulated values and the observations
// must be positive; anything else yields -Inf.
type LogNormalErrorModel struct{}

var _ ErrorModel = LogNormalErrorModel{}

// NewLogNormalErrorModel creates a log-normal error model.
func NewLogNormalErrorModel() LogNormalErrorModel {
	return LogNormalErrorModel{}
}

// NParameters returns 1.
func (LogNormalErrorModel) NParameters() int { return 1 }

// ParameterNames returns the ordered parameter names.
func (LogNormalErrorModel) ParameterNames() []string { return []string{"Sigma log"} }

// LogLikelihood returns the summed log-normal log-density of the
// observations around the simulated series.
func (LogNormalErrorModel) LogLikelihood(parameters, simulated, observations []float64) float64 {
	sigma := parameters[0]
	if !(sigma > 0) {
		return negInf
	}

	var score float64
	for i, obs := range observations {
		if !(obs > 0) || !(simulated[i] > 0) {
			return negInf
		}

		logObs := math.Log(obs)
		diff := (logObs - math.Log(simulated[i])) / sigma
		score -= log2Pi/2 + math.Log(sigma) + logObs + diff*diff/2
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws one measurement around each simulated value. Non-positive
// simulated values produce NaN samples.
func (LogNormalErrorModel) Sample(rng *rand.Rand, parameters, simulated []float64) []float64 {
	sigma := parameters[0]
	samples := make([]float64, len(simulated))
	for i, value := range simulated {
		if !(value > 0) {
			samples[i] = math.NaN()
			continue
		}

		dist := distuv.LogNormal{Mu: math.Log(value), Sigma: sigma, Src: rng}
		samples[i] = dist.Rand()
	}

	return samples
}
