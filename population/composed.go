package population

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// ComposedModel combines independent population models over disjoint
// parameter subsets. Slot accounting, log-density and sampling all
// delegate per constituent, in order.
type ComposedModel struct {
	models []PopulationModel
}

var _ PopulationModel = (*ComposedModel)(nil)

// NewComposedModel combines the given models. The order is fixed and
// determines the layout of individual values and hyperparameters.
func NewComposedModel(models ...PopulationModel) (*ComposedModel, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("composed model: no models")
	}
	for i, m := range models {
		if m == nil {
			return nil, fmt.Errorf("composed model: model %d is nil", i)
		}
	}

	return &ComposedModel{models: models}, nil
}

// Models returns the constituent models in order.
func (c *ComposedModel) Models() []PopulationModel {
	models := make([]PopulationModel, len(c.models))
	copy(models, c.models)
	return models
}

// NHierarchical sums the slot counts of the constituents.
func (c *ComposedModel) NHierarchical(n int) (int, int) {
	var nBottom, nTop int
	for _, m := range c.models {
		b, t := m.NHierarchical(n)
		nBottom += b
		nTop += t
	}

	return nBottom, nTop
}

// NParameters sums the hyperparameter counts of the constituents.
func (c *ComposedModel) NParameters() int {
	var total int
	for _, m := range c.models {
		total += m.NParameters()
	}

	return total
}

// ParameterNames concatenates the constituent hyperparameter names in
// order.
func (c *ComposedModel) ParameterNames() []string {
	names := make([]string, 0, c.NParameters())
	for _, m := range c.models {
		names = append(names, m.ParameterNames()...)
	}

	return names
}

// LogPDF sums the constituent log-densities. The individual values are laid
// out as consecutive per-model blocks; the number of individuals is
// inferred from the total length and the per-model slot counts.
func (c *ComposedModel) LogPDF(individuals, hyper []float64) float64 {
	n := c.individualsPerModel(len(individuals))

	var score float64
	var bottomOff, topOff int
	for _, m := range c.models {
		nBottom, _ := m.NHierarchical(n)
		nTop := m.NParameters()
		score += m.LogPDF(
			individuals[bottomOff:bottomOff+nBottom],
			hyper[topOff:topOff+nTop],
		)
		bottomOff += nBottom
		topOff += nTop
	}

	return score
}

// Sample concatenates the constituent samples per-model.
func (c *ComposedModel) Sample(rng *rand.Rand, hyper []float64, n int) []float64 {
	nBottom, _ := c.NHierarchical(n)
	samples := make([]float64, 0, nBottom)

	var topOff int
	for _, m := range c.models {
		nTop := m.NParameters()
		sub := m.Sample(rng, hyper[topOff:topOff+nTop], n)
		if sub == nil {
			b, _ := m.NHierarchical(n)
			sub = make([]float64, b)
		}
		samples = append(samples, sub...)
		topOff += nTop
	}

	return samples
}

// individualsPerModel recovers the cohort size from the flat bottom-level
// length. Pooled models contribute no bottom slots, so only models with
// per-individual slots count.
func (c *ComposedModel) individualsPerModel(nBottom int) int {
	var perIndividual int
	for _, m := range c.models {
		if b, _ := m.NHierarchical(1); b > 0 {
			perIndividual += b
		}
	}
	if perIndividual == 0 {
		return 0
	}

	return nBottom / perIndividual
}
