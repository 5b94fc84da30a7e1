package predict

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/sampler"
)

// PosteriorPredictiveModel approximates the posterior predictive
// distribution by pairing a PredictiveModel with an MCMC samples
// collection: each draw picks a (chain, iteration) uniformly from the
// post-warm-up iterations and samples the measurement distribution once
// at that parameter vector.
type PosteriorPredictiveModel struct {
	pred    *PredictiveModel
	samples *sampler.SamplesCollection
	slots   []int // collection slot per predictive parameter
	warmup  int   // negative means half the chain
}

// Option configures a PosteriorPredictiveModel.
type Option func(*PosteriorPredictiveModel)

// WithWarmup overrides the number of leading iterations per chain excluded
// from posterior draws. The default excludes the first half.
func WithWarmup(iterations int) Option {
	return func(p *PosteriorPredictiveModel) { p.warmup = iterations }
}

// NewPosteriorPredictiveModel binds the predictive model's parameters to
// named slots of the collection. parameterNames maps each predictive
// parameter, in order, to a collection parameter name; nil uses the
// predictive model's own names. Names absent from the collection fail
// with ErrUnknownParameter.
func NewPosteriorPredictiveModel(
	pred *PredictiveModel,
	samples *sampler.SamplesCollection,
	parameterNames []string,
	opts ...Option,
) (*PosteriorPredictiveModel, error) {
	if pred == nil || samples == nil {
		return nil, fmt.Errorf("%w: predictive model and samples are required", errs.ErrConfiguration)
	}
	if parameterNames == nil {
		parameterNames = pred.ParameterNames()
	}
	if len(parameterNames) != pred.NParameters() {
		return nil, fmt.Errorf(
			"%w: got %d parameter names, want %d",
			errs.ErrDimensionMismatch, len(parameterNames), pred.NParameters())
	}

	index := make(map[string]int, samples.NParameters())
	for i, name := range samples.ParameterNames() {
		index[name] = i
	}

	slots := make([]int, len(parameterNames))
	for i, name := range parameterNames {
		slot, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in samples collection", errs.ErrUnknownParameter, name)
		}
		slots[i] = slot
	}

	p := &PosteriorPredictiveModel{pred: pred, samples: samples, slots: slots, warmup: -1}
	for _, opt := range opts {
		opt(p)
	}
	if p.warmup >= 0 && p.warmup >= samples.NIterations() {
		return nil, fmt.Errorf(
			"%w: warm-up %d leaves no iterations out of %d",
			errs.ErrConfiguration, p.warmup, samples.NIterations())
	}

	return p, nil
}

// Sample draws nSamples synthetic measurement series per output, each
// under an independent posterior parameter draw. The configured warm-up
// of every chain is excluded.
func (p *PosteriorPredictiveModel) Sample(
	rng *rand.Rand,
	times []float64,
	regimen mech.Regimen,
	nSamples int,
) (map[string]*mat.Dense, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("%w: n_samples %d", errs.ErrConfiguration, nSamples)
	}

	warmup := p.warmup
	if warmup < 0 {
		warmup = p.samples.NIterations() / 2
	}
	kept := p.samples.NIterations() - warmup
	if kept < 1 {
		return nil, fmt.Errorf("%w: no post-warm-up iterations", errs.ErrConfiguration)
	}

	result := make(map[string]*mat.Dense, len(p.pred.noises))
	parameters := make([]float64, len(p.slots))
	for s := 0; s < nSamples; s++ {
		chain := rng.Intn(p.samples.NChains())
		iteration := warmup + rng.Intn(kept)
		for i, slot := range p.slots {
			parameters[i] = p.samples.Get(chain, iteration, slot)
		}

		draw, err := p.pred.Sample(rng, parameters, times, regimen, 1)
		if err != nil {
			return nil, err
		}
		for output, row := range draw {
			dst := result[output]
			if dst == nil {
				dst = mat.NewDense(nSamples, len(times), nil)
				result[output] = dst
			}
			dst.SetRow(s, row.RawRowView(0))
		}
	}

	return result, nil
}
