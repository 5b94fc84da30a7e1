package sampler

import (
	"math"

	"golang.org/x/exp/rand"
)

// Algorithm is one MCMC chain's proposal engine, driven by the controller
// in ask/tell steps: Ask produces a proposal, the controller scores it,
// Tell accepts or rejects. Implementations are stateful and owned by a
// single chain.
type Algorithm interface {
	// Init seeds the chain at the initial point with its target score.
	Init(rng *rand.Rand, initial []float64, logPDF float64)

	// Ask returns the next proposal. The returned slice is owned by the
	// algorithm and only valid until the next call.
	Ask() []float64

	// Tell reports the proposal's target score and returns whether the
	// proposal was accepted as the new current point.
	Tell(proposal []float64, logPDF float64) bool

	// Current returns the current point and its target score.
	Current() ([]float64, float64)
}

// AlgorithmFactory creates a fresh Algorithm for a chain of the given
// dimension.
type AlgorithmFactory func(dim int) Algorithm

// MetropolisHastings is a Gaussian random-walk Metropolis sampler with a
// shared per-dimension step size.
type MetropolisHastings struct {
	rng      *rand.Rand
	stepSize float64

	current   []float64
	currentLP float64
	proposal  []float64
}

var _ Algorithm = (*MetropolisHastings)(nil)

// NewMetropolisHastings returns a factory for random-walk Metropolis
// samplers with the given proposal step size.
func NewMetropolisHastings(stepSize float64) AlgorithmFactory {
	return func(dim int) Algorithm {
		return &MetropolisHastings{
			stepSize: stepSize,
			current:  make([]float64, dim),
			proposal: make([]float64, dim),
		}
	}
}

// Init seeds the chain.
func (m *MetropolisHastings) Init(rng *rand.Rand, initial []float64, logPDF float64) {
	m.rng = rng
	copy(m.current, initial)
	m.currentLP = logPDF
}

// Ask perturbs the current point with isotropic Gaussian noise.
func (m *MetropolisHastings) Ask() []float64 {
	for i, x := range m.current {
		m.proposal[i] = x + m.stepSize*m.rng.NormFloat64()
	}

	return m.proposal
}

// Tell applies the Metropolis acceptance rule. The proposal kernel is
// symmetric, so the ratio reduces to the target score difference.
func (m *MetropolisHastings) Tell(proposal []float64, logPDF float64) bool {
	if math.IsInf(logPDF, -1) {
		return false
	}

	if logPDF >= m.currentLP || math.Log(m.rng.Float64()) < logPDF-m.currentLP {
		copy(m.current, proposal)
		m.currentLP = logPDF
		return true
	}

	return false
}

// Current returns the chain's current point and score.
func (m *MetropolisHastings) Current() ([]float64, float64) {
	return m.current, m.currentLP
}
