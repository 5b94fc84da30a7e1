package noise

import (
	"math"

	"golang.org/x/exp/rand"
)

// ErrorModel maps a mechanistic-model output series to a measurement
// distribution around it.
//
// Implementations must be immutable and safe for concurrent use; all state
// lives in the parameter vectors passed to each call.
type ErrorModel interface {
	// NParameters returns the number of error-model parameters.
	NParameters() int

	// ParameterNames returns the ordered parameter names.
	ParameterNames() []string

	// LogLikelihood returns the summed log-density of the observations
	// around the simulated series. The simulated and observation slices
	// must have equal length; parameters must have NParameters entries.
	// Out-of-support parameters yield -Inf.
	LogLikelihood(parameters, simulated, observations []float64) float64

	// Sample draws one synthetic measurement around each simulated value.
	Sample(rng *rand.Rand, parameters, simulated []float64) []float64
}

var negInf = math.Inf(-1)

const log2Pi = 1.8378770664093453 // log(2*pi)
