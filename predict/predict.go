package predict

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/noise"
)

// PredictiveModel samples the measurement distribution of a mechanistic
// model with per-output error models at a fixed parameter vector.
type PredictiveModel struct {
	model      mech.Model
	noises     []noise.ErrorModel
	nMech      int
	errOffsets []int
}

// NewPredictiveModel pairs a mechanistic model with one error model per
// output.
func NewPredictiveModel(model mech.Model, errorModels []noise.ErrorModel) (*PredictiveModel, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: mechanistic model is nil", errs.ErrConfiguration)
	}
	if got, want := len(errorModels), len(model.Outputs()); got != want {
		return nil, fmt.Errorf(
			"%w: got %d error models for %d outputs",
			errs.ErrConfiguration, got, want)
	}

	p := &PredictiveModel{
		model:      model,
		noises:     append([]noise.ErrorModel(nil), errorModels...),
		nMech:      len(model.Parameters()),
		errOffsets: make([]int, len(errorModels)),
	}
	off := p.nMech
	for k, em := range errorModels {
		p.errOffsets[k] = off
		off += em.NParameters()
	}

	return p, nil
}

// NParameters returns the length of the parameter vector Sample consumes:
// mechanistic parameters followed by all error-model parameters.
func (p *PredictiveModel) NParameters() int {
	n := p.nMech
	for _, em := range p.noises {
		n += em.NParameters()
	}

	return n
}

// ParameterNames returns the ordered parameter names, error-model names
// prefixed with their output for multi-output models.
func (p *PredictiveModel) ParameterNames() []string {
	outputs := p.model.Outputs()
	names := append([]string(nil), p.model.Parameters()...)
	for k, em := range p.noises {
		for _, name := range em.ParameterNames() {
			if len(outputs) > 1 {
				name = outputs[k] + " " + name
			}
			names = append(names, name)
		}
	}

	return names
}

// Sample draws nSamples synthetic measurement series per output at the
// given times under the dosing regimen. Each output maps to an
// (nSamples, nTimes) matrix.
func (p *PredictiveModel) Sample(
	rng *rand.Rand,
	parameters, times []float64,
	regimen mech.Regimen,
	nSamples int,
) (map[string]*mat.Dense, error) {
	if len(parameters) != p.NParameters() {
		return nil, fmt.Errorf(
			"%w: got %d parameters, want %d",
			errs.ErrDimensionMismatch, len(parameters), p.NParameters())
	}
	if nSamples < 1 {
		return nil, fmt.Errorf("%w: n_samples %d", errs.ErrConfiguration, nSamples)
	}

	simulated, err := p.model.Simulate(parameters[:p.nMech], times, regimen)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*mat.Dense, len(p.noises))
	for k, output := range p.model.Outputs() {
		series, ok := simulated[output]
		if !ok || len(series) != len(times) {
			return nil, fmt.Errorf("%w: output %q missing from simulation", errs.ErrSimulation, output)
		}

		em := p.noises[k]
		params := parameters[p.errOffsets[k] : p.errOffsets[k]+em.NParameters()]
		draws := mat.NewDense(nSamples, len(times), nil)
		for s := 0; s < nSamples; s++ {
			draws.SetRow(s, em.Sample(rng, params, series))
		}
		result[output] = draws
	}

	return result, nil
}
