package problem

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/prior"
)

// LogPosterior combines a log-likelihood with a log-prior. For a
// hierarchical likelihood the prior scores the top-level and
// heterogeneous slots only; every other bottom-level slot is scored by
// its population model inside the likelihood.
//
// A LogPosterior is immutable and safe for concurrent use.
type LogPosterior struct {
	ll    LogLikelihood
	prior prior.LogPrior
	lay   *layout // nil for non-hierarchical posteriors
	id    string  // individual ID for non-hierarchical posteriors
}

// ID returns the individual this posterior targets, or the empty string
// for a hierarchical posterior over the whole cohort.
func (p *LogPosterior) ID() string { return p.id }

// NParameters returns the sampled vector length.
func (p *LogPosterior) NParameters() int { return p.ll.NParameters() }

// ParameterNames returns the ordered sampled vector slot names.
func (p *LogPosterior) ParameterNames() []string { return p.ll.ParameterNames() }

// LogLikelihood returns the underlying likelihood.
func (p *LogPosterior) LogLikelihood() LogLikelihood { return p.ll }

// CheckSupport rejects vectors of the wrong length.
func (p *LogPosterior) CheckSupport(parameters []float64) error {
	if len(parameters) != p.ll.NParameters() {
		return fmt.Errorf(
			"%w: got %d parameters, want %d",
			errs.ErrDimensionMismatch, len(parameters), p.ll.NParameters())
	}

	return nil
}

// Value returns log-prior + log-likelihood, or -Inf (never NaN). A prior
// of -Inf short-circuits without evaluating the likelihood, so proposals
// outside the prior support never trigger a simulation.
func (p *LogPosterior) Value(parameters []float64) float64 {
	if len(parameters) != p.ll.NParameters() {
		return negInf
	}

	var priorScore float64
	if p.lay != nil {
		priorScore = p.prior.LogPDF(p.lay.subset(parameters))
	} else {
		priorScore = p.prior.LogPDF(parameters)
	}
	if math.IsInf(priorScore, -1) || math.IsNaN(priorScore) {
		return negInf
	}

	total := priorScore + p.ll.Evaluate(parameters)
	if math.IsNaN(total) {
		return negInf
	}

	return total
}

// SampleInitial draws one dispersed starting point: prior-covered slots
// from the prior, remaining bottom-level slots from the population models
// given the drawn hyperparameters.
func (p *LogPosterior) SampleInitial(rng *rand.Rand) []float64 {
	if p.lay == nil {
		return p.prior.Sample(rng)
	}

	point := make([]float64, p.lay.nTotal)
	p.lay.scatter(point, p.prior.Sample(rng))
	if h, ok := p.ll.(*HierarchicalLogLikelihood); ok {
		h.sampleLatents(rng, point)
	}

	return point
}
