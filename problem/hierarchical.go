package problem

import (
	"math"

	"golang.org/x/exp/rand"
)

// HierarchicalLogLikelihood scores a cohort jointly: the population
// models' log-densities over the individual-level values plus every
// individual's data log-likelihood at its own values.
//
// The flat vector follows the layout built by the controller: bottom-level
// blocks first, then population hyperparameters. Parameters governed by a
// pooled model take their shared top-level value for every individual.
type HierarchicalLogLikelihood struct {
	individuals []*individualEvaluator
	lay         *layout

	fixedTemplate []float64
	freeIdx       []int
}

var _ LogLikelihood = (*HierarchicalLogLikelihood)(nil)

// NParameters returns the length of the flat hierarchical vector.
func (h *HierarchicalLogLikelihood) NParameters() int { return h.lay.nTotal }

// ParameterNames returns the ordered flat vector slot names.
func (h *HierarchicalLogLikelihood) ParameterNames() []string {
	names := make([]string, len(h.lay.names))
	copy(names, h.lay.names)
	return names
}

// IDs returns the cohort's individual identifiers in layout order.
func (h *HierarchicalLogLikelihood) IDs() []string {
	ids := make([]string, len(h.lay.ids))
	copy(ids, h.lay.ids)
	return ids
}

// Evaluate returns the joint log-likelihood of the flat vector. A
// population term of -Inf short-circuits before any simulation runs.
func (h *HierarchicalLogLikelihood) Evaluate(parameters []float64) float64 {
	if len(parameters) != h.lay.nTotal {
		return negInf
	}

	var score float64
	for _, blk := range h.lay.blocks {
		bottoms := parameters[blk.bottomOff : blk.bottomOff+blk.nBottom]
		hyper := parameters[blk.topOff : blk.topOff+blk.nTop]
		score += blk.pop.LogPDF(bottoms, hyper)
		if math.IsInf(score, -1) {
			return negInf
		}
	}

	for i, ind := range h.individuals {
		base := make([]float64, len(h.fixedTemplate))
		copy(base, h.fixedTemplate)
		for j, blk := range h.lay.blocks {
			var psi float64
			if blk.nBottom > 0 {
				psi = parameters[blk.bottomOff+i]
			} else {
				psi = parameters[blk.topOff]
			}
			base[h.freeIdx[j]] = psi
		}

		score += ind.evaluate(base)
		if math.IsInf(score, -1) {
			return negInf
		}
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// sampleLatents fills the bottom-level slots of distributional parameters
// by sampling their population models at the hyperparameter values already
// present in the vector. Slots covered by the prior are left untouched.
func (h *HierarchicalLogLikelihood) sampleLatents(rng *rand.Rand, parameters []float64) {
	for _, blk := range h.lay.blocks {
		if blk.nBottom == 0 || blk.pop.NParameters() == 0 {
			continue
		}

		hyper := parameters[blk.topOff : blk.topOff+blk.nTop]
		bottoms := blk.pop.Sample(rng, hyper, len(h.lay.ids))
		copy(parameters[blk.bottomOff:blk.bottomOff+blk.nBottom], bottoms)
	}
}
