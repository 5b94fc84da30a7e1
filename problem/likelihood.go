package problem

import (
	"math"
	"sort"

	"github.com/DavAug/erlotinib/data"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/noise"
)

// LogLikelihood is an evaluable log-likelihood over a flat parameter
// vector. Implementations are pure functions of the vector: evaluation
// produces no mutable state, so one instance may be shared across chains.
type LogLikelihood interface {
	// NParameters returns the length of the vectors Evaluate accepts.
	NParameters() int

	// ParameterNames returns the ordered slot names.
	ParameterNames() []string

	// Evaluate returns the log-likelihood of the vector, or -Inf (never
	// NaN) when the vector is invalid, outside the model's domain, or the
	// simulation fails.
	Evaluate(parameters []float64) float64
}

var negInf = math.Inf(-1)

// individualEvaluator scores one individual's observations against the
// mechanistic model and the per-output error models. It operates on the
// full base vector (mechanistic parameters followed by all error-model
// parameters) with fixed values already injected.
type individualEvaluator struct {
	model   mech.Model
	regimen mech.Regimen
	noises  []noise.ErrorModel

	outputs    []string
	times      []float64 // union of observation times, sorted
	obsValues  [][]float64
	obsTimeIdx [][]int // per output, index into times per observation

	nMech      int
	errOffsets []int // offset of each error model's block in the base vector
}

func newIndividualEvaluator(
	model mech.Model,
	noises []noise.ErrorModel,
	series []*data.Series,
	regimen mech.Regimen,
) *individualEvaluator {
	outputs := model.Outputs()
	ev := &individualEvaluator{
		model:      model,
		regimen:    regimen,
		noises:     noises,
		outputs:    outputs,
		obsValues:  make([][]float64, len(outputs)),
		obsTimeIdx: make([][]int, len(outputs)),
		nMech:      len(model.Parameters()),
		errOffsets: make([]int, len(noises)),
	}

	timeSet := make(map[float64]struct{})
	for _, s := range series {
		if s == nil {
			continue
		}
		for _, t := range s.Times {
			timeSet[t] = struct{}{}
		}
	}
	ev.times = make([]float64, 0, len(timeSet))
	for t := range timeSet {
		ev.times = append(ev.times, t)
	}
	sort.Float64s(ev.times)

	timeIdx := make(map[float64]int, len(ev.times))
	for i, t := range ev.times {
		timeIdx[t] = i
	}

	for k, s := range series {
		if s == nil {
			continue
		}
		ev.obsValues[k] = s.Values
		idx := make([]int, len(s.Times))
		for i, t := range s.Times {
			idx[i] = timeIdx[t]
		}
		ev.obsTimeIdx[k] = idx
	}

	off := ev.nMech
	for k, em := range noises {
		ev.errOffsets[k] = off
		off += em.NParameters()
	}

	return ev
}

// nBase returns the length of the base vector the evaluator consumes.
func (ev *individualEvaluator) nBase() int {
	n := ev.nMech
	for _, em := range ev.noises {
		n += em.NParameters()
	}

	return n
}

// evaluate scores the base vector. An individual without observations
// contributes exactly zero and skips the simulation entirely.
func (ev *individualEvaluator) evaluate(base []float64) float64 {
	if len(ev.times) == 0 {
		return 0
	}

	simulated, err := ev.model.Simulate(base[:ev.nMech], ev.times, ev.regimen)
	if err != nil {
		return negInf
	}

	var score float64
	for k, output := range ev.outputs {
		values := ev.obsValues[k]
		if len(values) == 0 {
			continue
		}

		series, ok := simulated[output]
		if !ok || len(series) != len(ev.times) {
			return negInf
		}

		simAtObs := make([]float64, len(values))
		for i, idx := range ev.obsTimeIdx[k] {
			simAtObs[i] = series[idx]
		}

		em := ev.noises[k]
		params := base[ev.errOffsets[k] : ev.errOffsets[k]+em.NParameters()]
		score += em.LogLikelihood(params, simAtObs, values)
		if math.IsInf(score, -1) {
			return negInf
		}
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// IndividualLogLikelihood scores one individual's data over the free
// (unfixed) base parameters.
type IndividualLogLikelihood struct {
	id    string
	eval  *individualEvaluator
	names []string

	fixedTemplate []float64 // base vector with fixed values pre-filled
	freeIdx       []int     // base index of each free parameter
}

var _ LogLikelihood = (*IndividualLogLikelihood)(nil)

// ID returns the individual this likelihood scores.
func (l *IndividualLogLikelihood) ID() string { return l.id }

// NParameters returns the number of free parameters.
func (l *IndividualLogLikelihood) NParameters() int { return len(l.freeIdx) }

// ParameterNames returns the free parameter names.
func (l *IndividualLogLikelihood) ParameterNames() []string {
	names := make([]string, len(l.names))
	copy(names, l.names)
	return names
}

// Evaluate injects fixed values and scores the individual's data.
func (l *IndividualLogLikelihood) Evaluate(parameters []float64) float64 {
	if len(parameters) != len(l.freeIdx) {
		return negInf
	}

	base := make([]float64, len(l.fixedTemplate))
	copy(base, l.fixedTemplate)
	for i, idx := range l.freeIdx {
		base[idx] = parameters[i]
	}

	return l.eval.evaluate(base)
}
