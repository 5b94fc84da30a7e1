package prior

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// LogPrior is a log-density over a parameter vector with the ability to
// sample from itself. Implementations must be immutable and safe for
// concurrent use.
type LogPrior interface {
	// NParameters returns the dimension of the vectors the prior scores.
	NParameters() int

	// LogPDF returns the log-density of the vector, or -Inf outside the
	// support. The vector length must equal NParameters.
	LogPDF(parameters []float64) float64

	// Sample draws one vector from the prior.
	Sample(rng *rand.Rand) []float64
}

// ComposedLogPrior is a joint prior of independent one-dimensional
// marginals, one per parameter, in order.
type ComposedLogPrior struct {
	marginals []Marginal
}

var _ LogPrior = (*ComposedLogPrior)(nil)

// Marginal is a one-dimensional prior distribution.
type Marginal interface {
	// LogPDF returns the log-density at x, or -Inf outside the support.
	LogPDF(x float64) float64

	// Sample draws one value.
	Sample(rng *rand.Rand) float64
}

// NewComposedLogPrior builds a joint prior from the given marginals.
func NewComposedLogPrior(marginals ...Marginal) (*ComposedLogPrior, error) {
	if len(marginals) == 0 {
		return nil, fmt.Errorf("composed prior: no marginals")
	}
	for i, m := range marginals {
		if m == nil {
			return nil, fmt.Errorf("composed prior: marginal %d is nil", i)
		}
	}

	return &ComposedLogPrior{marginals: marginals}, nil
}

// NParameters returns the number of marginals.
func (c *ComposedLogPrior) NParameters() int { return len(c.marginals) }

// LogPDF sums the marginal log-densities. A length mismatch or any
// marginal outside its support yields -Inf.
func (c *ComposedLogPrior) LogPDF(parameters []float64) float64 {
	if len(parameters) != len(c.marginals) {
		return negInf
	}

	var score float64
	for i, m := range c.marginals {
		score += m.LogPDF(parameters[i])
		if math.IsInf(score, -1) {
			return negInf
		}
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws one value per marginal.
func (c *ComposedLogPrior) Sample(rng *rand.Rand) []float64 {
	sample := make([]float64, len(c.marginals))
	for i, m := range c.marginals {
		sample[i] = m.Sample(rng)
	}

	return sample
}

var negInf = math.Inf(-1)
