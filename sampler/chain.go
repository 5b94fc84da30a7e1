package sampler

import "fmt"

// Chain is one MCMC trajectory: per iteration the current point, its
// log-posterior and whether the step's proposal was accepted. A Chain is
// append-only during the run and immutable afterwards.
type Chain struct {
	dim        int
	parameters []float64 // iteration-major, dim values per iteration
	logPDF     []float64
	accepted   []bool
}

// NewChain reconstructs a finished chain from recorded steps, e.g. when
// decoding a persisted run. parameters holds dim values per iteration,
// iteration-major.
func NewChain(dim int, parameters []float64, logPDF []float64, accepted []bool) (*Chain, error) {
	if dim < 1 {
		return nil, fmt.Errorf("chain: dimension %d", dim)
	}
	if len(parameters) != dim*len(logPDF) || len(logPDF) != len(accepted) {
		return nil, fmt.Errorf(
			"chain: inconsistent lengths (%d parameters, %d scores, %d flags)",
			len(parameters), len(logPDF), len(accepted))
	}

	return &Chain{
		dim:        dim,
		parameters: parameters,
		logPDF:     logPDF,
		accepted:   accepted,
	}, nil
}

func newChain(dim, nIterations int) *Chain {
	return &Chain{
		dim:        dim,
		parameters: make([]float64, 0, dim*nIterations),
		logPDF:     make([]float64, 0, nIterations),
		accepted:   make([]bool, 0, nIterations),
	}
}

func (c *Chain) append(point []float64, logPDF float64, accepted bool) {
	c.parameters = append(c.parameters, point...)
	c.logPDF = append(c.logPDF, logPDF)
	c.accepted = append(c.accepted, accepted)
}

// NIterations returns the number of recorded iterations.
func (c *Chain) NIterations() int { return len(c.logPDF) }

// Parameters returns a copy of the point at the given iteration.
func (c *Chain) Parameters(iteration int) []float64 {
	point := make([]float64, c.dim)
	copy(point, c.parameters[iteration*c.dim:(iteration+1)*c.dim])
	return point
}

// LogPDF returns the log-posterior at the given iteration.
func (c *Chain) LogPDF(iteration int) float64 { return c.logPDF[iteration] }

// Accepted reports whether the proposal at the given iteration was
// accepted.
func (c *Chain) Accepted(iteration int) bool { return c.accepted[iteration] }

// AcceptanceRate returns the fraction of accepted proposals.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.accepted) == 0 {
		return 0
	}

	var n int
	for _, a := range c.accepted {
		if a {
			n++
		}
	}

	return float64(n) / float64(len(c.accepted))
}

// SamplesCollection is the read-only result of a sampling run: nChains
// chains of nIterations points over the same named parameters, indexed by
// (chain, iteration, parameter).
type SamplesCollection struct {
	names  []string
	chains []*Chain
}

// NewSamplesCollection assembles a collection from finished chains. Every
// chain must share the parameter dimension and iteration count.
func NewSamplesCollection(names []string, chains []*Chain) (*SamplesCollection, error) {
	if len(chains) == 0 {
		return nil, fmt.Errorf("samples collection: no chains")
	}
	for i, c := range chains {
		if c.dim != len(names) {
			return nil, fmt.Errorf(
				"samples collection: chain %d has %d parameters, want %d",
				i, c.dim, len(names))
		}
		if c.NIterations() != chains[0].NIterations() {
			return nil, fmt.Errorf(
				"samples collection: chain %d has %d iterations, want %d",
				i, c.NIterations(), chains[0].NIterations())
		}
	}

	owned := make([]string, len(names))
	copy(owned, names)
	return &SamplesCollection{names: owned, chains: chains}, nil
}

// NChains returns the number of chains.
func (s *SamplesCollection) NChains() int { return len(s.chains) }

// NIterations returns the per-chain iteration count.
func (s *SamplesCollection) NIterations() int { return s.chains[0].NIterations() }

// NParameters returns the parameter dimension.
func (s *SamplesCollection) NParameters() int { return len(s.names) }

// ParameterNames returns the ordered parameter names.
func (s *SamplesCollection) ParameterNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Chain returns the given chain.
func (s *SamplesCollection) Chain(chain int) *Chain { return s.chains[chain] }

// Get returns one scalar sample.
func (s *SamplesCollection) Get(chain, iteration, parameter int) float64 {
	c := s.chains[chain]
	return c.parameters[iteration*c.dim+parameter]
}

// ParameterSamples returns a copy of one parameter's trajectory in one
// chain.
func (s *SamplesCollection) ParameterSamples(chain, parameter int) []float64 {
	c := s.chains[chain]
	samples := make([]float64, c.NIterations())
	for i := range samples {
		samples[i] = c.parameters[i*c.dim+parameter]
	}

	return samples
}
