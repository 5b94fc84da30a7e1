package problem

import (
	"fmt"
	"math"

	"github.com/DavAug/erlotinib/data"
	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/noise"
	"github.com/DavAug/erlotinib/population"
	"github.com/DavAug/erlotinib/prior"
)

// Controller assembles an inference problem step by step: mechanistic
// model, error models, data, optional population models and fixed
// parameters, prior. Each step validates against what is already set;
// steps that change the parameter layout reset the configuration that
// depends on it.
//
// A Controller is not safe for concurrent mutation. The evaluation
// objects it derives are immutable and freely shareable.
type Controller struct {
	model              mech.Model
	outputToObservable map[string]string
	noises             []noise.ErrorModel
	dataset            *data.Dataset
	popModels          map[string]population.PopulationModel
	fixed              map[string]float64
	logPrior           prior.LogPrior
}

// NewController creates an empty problem controller.
func NewController() *Controller {
	return &Controller{fixed: make(map[string]float64)}
}

// SetMechanisticModel binds the mechanistic model and maps its outputs to
// dataset observable names. A nil map binds each output to the observable
// of the same name. Setting the model resets every downstream
// configuration step.
func (c *Controller) SetMechanisticModel(model mech.Model, outputObservableMap map[string]string) error {
	if model == nil {
		return fmt.Errorf("%w: mechanistic model is nil", errs.ErrConfiguration)
	}

	outputs := model.Outputs()
	mapping := make(map[string]string, len(outputs))
	if outputObservableMap == nil {
		for _, out := range outputs {
			mapping[out] = out
		}
	} else {
		known := make(map[string]struct{}, len(outputs))
		for _, out := range outputs {
			known[out] = struct{}{}
		}
		seen := make(map[string]struct{}, len(outputObservableMap))
		for out, obs := range outputObservableMap {
			if _, ok := known[out]; !ok {
				return fmt.Errorf("%w: %q is not a model output", errs.ErrMapping, out)
			}
			if _, dup := seen[obs]; dup {
				return fmt.Errorf("%w: observable %q mapped to multiple outputs", errs.ErrMapping, obs)
			}
			seen[obs] = struct{}{}
			mapping[out] = obs
		}
	}

	c.model = model
	c.outputToObservable = mapping
	c.noises = nil
	c.popModels = nil
	c.fixed = make(map[string]float64)
	c.logPrior = nil

	if c.dataset != nil {
		if err := c.checkMapping(); err != nil {
			c.dataset = nil
			return err
		}
	}

	return nil
}

// SetErrorModels attaches one error model per mechanistic model output, in
// output order. Population models and the prior are reset because the
// parameter layout changes.
func (c *Controller) SetErrorModels(models []noise.ErrorModel) error {
	if c.model == nil {
		return fmt.Errorf("%w: mechanistic model not set", errs.ErrIncompleteProblem)
	}
	if got, want := len(models), len(c.model.Outputs()); got != want {
		return fmt.Errorf(
			"%w: got %d error models for %d outputs",
			errs.ErrConfiguration, got, want)
	}
	for i, m := range models {
		if m == nil {
			return fmt.Errorf("%w: error model %d is nil", errs.ErrConfiguration, i)
		}
	}

	c.noises = append([]noise.ErrorModel(nil), models...)
	c.popModels = nil
	c.fixed = make(map[string]float64)
	c.logPrior = nil

	return nil
}

// SetData indexes the dataset into the problem. Every dataset observable
// must be reachable through the output mapping. Population models and the
// prior are reset because the cohort changes the layout.
func (c *Controller) SetData(dataset *data.Dataset) error {
	if c.model == nil {
		return fmt.Errorf("%w: mechanistic model not set", errs.ErrIncompleteProblem)
	}
	if dataset == nil {
		return fmt.Errorf("%w: dataset is nil", errs.ErrConfiguration)
	}

	prev := c.dataset
	c.dataset = dataset
	if err := c.checkMapping(); err != nil {
		c.dataset = prev
		return err
	}

	c.popModels = nil
	c.logPrior = nil

	return nil
}

// SetPopulationModels attaches hierarchical variation to the named
// parameters. Parameters without an entry default to pooled. The prior is
// reset because the layout changes.
func (c *Controller) SetPopulationModels(models map[string]population.PopulationModel) error {
	if err := c.requireData(); err != nil {
		return err
	}

	free := make(map[string]struct{})
	for _, name := range c.freeNames() {
		free[name] = struct{}{}
	}
	for name, pm := range models {
		if pm == nil {
			return fmt.Errorf("%w: population model for %q is nil", errs.ErrConfiguration, name)
		}
		if _, fixed := c.fixed[name]; fixed {
			return fmt.Errorf("%w: parameter %q is fixed", errs.ErrConfiguration, name)
		}
		if _, ok := free[name]; !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnknownParameter, name)
		}
	}

	c.popModels = make(map[string]population.PopulationModel, len(models))
	for name, pm := range models {
		c.popModels[name] = pm
	}
	c.logPrior = nil

	return nil
}

// FixParameters pins the named parameters to constants, removing them from
// the sampled vector. A NaN value releases a previously fixed parameter;
// fixing an already-fixed parameter to a new value fails, it must be
// released first. Population models and the prior are reset because the
// layout changes.
func (c *Controller) FixParameters(values map[string]float64) error {
	if c.model == nil || c.noises == nil {
		return fmt.Errorf("%w: mechanistic and error models not set", errs.ErrIncompleteProblem)
	}

	known := make(map[string]struct{})
	for _, name := range c.baseNames() {
		known[name] = struct{}{}
	}
	for name, value := range values {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnknownParameter, name)
		}
		if _, alreadyFixed := c.fixed[name]; alreadyFixed && !math.IsNaN(value) {
			return fmt.Errorf("%w: %q is already fixed", errs.ErrUnknownParameter, name)
		}
	}

	for name, value := range values {
		if math.IsNaN(value) {
			delete(c.fixed, name)
			continue
		}
		c.fixed[name] = value
	}

	c.popModels = nil
	c.logPrior = nil

	return nil
}

// SetLogPrior attaches the prior over the sampled parameters: every slot
// for a non-hierarchical problem, the top-level and heterogeneous slots
// for a hierarchical one.
func (c *Controller) SetLogPrior(logPrior prior.LogPrior) error {
	if err := c.requireData(); err != nil {
		return err
	}
	if logPrior == nil {
		return fmt.Errorf("%w: prior is nil", errs.ErrConfiguration)
	}

	want := c.nPriorParameters()
	if got := logPrior.NParameters(); got != want {
		return fmt.Errorf(
			"%w: prior covers %d parameters, want %d",
			errs.ErrDimensionMismatch, got, want)
	}

	c.logPrior = logPrior
	return nil
}

// ParameterNames returns the ordered names of the sampled vector: the
// flat hierarchical layout when population models are set, the free base
// parameters otherwise.
func (c *Controller) ParameterNames() ([]string, error) {
	if c.model == nil || c.noises == nil {
		return nil, fmt.Errorf("%w: mechanistic and error models not set", errs.ErrIncompleteProblem)
	}

	if c.popModels == nil || c.dataset == nil {
		return c.freeNames(), nil
	}

	lay := c.buildLayout()
	names := make([]string, len(lay.names))
	copy(names, lay.names)
	return names, nil
}

// NParameters returns the sampled vector length.
func (c *Controller) NParameters() (int, error) {
	names, err := c.ParameterNames()
	if err != nil {
		return 0, err
	}

	return len(names), nil
}

// LogLikelihoods derives the evaluation objects: a single hierarchical
// log-likelihood when population models are set, one log-likelihood per
// individual otherwise.
func (c *Controller) LogLikelihoods() ([]LogLikelihood, error) {
	if err := c.requireData(); err != nil {
		return nil, err
	}

	template, freeIdx := c.fixedTemplate()
	ids := c.dataset.IDs()
	evaluators := make([]*individualEvaluator, len(ids))
	for i, id := range ids {
		evaluators[i] = c.newEvaluator(id)
	}

	if c.popModels == nil {
		lls := make([]LogLikelihood, len(ids))
		free := c.freeNames()
		for i, id := range ids {
			lls[i] = &IndividualLogLikelihood{
				id:            id,
				eval:          evaluators[i],
				names:         free,
				fixedTemplate: template,
				freeIdx:       freeIdx,
			}
		}
		return lls, nil
	}

	h := &HierarchicalLogLikelihood{
		individuals:   evaluators,
		lay:           c.buildLayout(),
		fixedTemplate: template,
		freeIdx:       freeIdx,
	}
	return []LogLikelihood{h}, nil
}

// LogPosteriors combines the log-likelihoods with the prior: a single
// posterior for hierarchical inference, one per individual otherwise.
func (c *Controller) LogPosteriors() ([]*LogPosterior, error) {
	if c.logPrior == nil {
		return nil, fmt.Errorf("%w: prior not set", errs.ErrIncompleteProblem)
	}

	lls, err := c.LogLikelihoods()
	if err != nil {
		return nil, err
	}

	posteriors := make([]*LogPosterior, len(lls))
	for i, ll := range lls {
		p := &LogPosterior{ll: ll, prior: c.logPrior}
		switch t := ll.(type) {
		case *HierarchicalLogLikelihood:
			p.lay = t.lay
		case *IndividualLogLikelihood:
			p.id = t.id
		}
		posteriors[i] = p
	}

	return posteriors, nil
}

func (c *Controller) requireData() error {
	switch {
	case c.model == nil:
		return fmt.Errorf("%w: mechanistic model not set", errs.ErrIncompleteProblem)
	case c.noises == nil:
		return fmt.Errorf("%w: error models not set", errs.ErrIncompleteProblem)
	case c.dataset == nil:
		return fmt.Errorf("%w: data not set", errs.ErrIncompleteProblem)
	}

	return nil
}

// checkMapping verifies every dataset observable is the image of exactly
// one model output.
func (c *Controller) checkMapping() error {
	mapped := make(map[string]struct{}, len(c.outputToObservable))
	for _, obs := range c.outputToObservable {
		mapped[obs] = struct{}{}
	}
	for _, obs := range c.dataset.Observables() {
		if _, ok := mapped[obs]; !ok {
			return fmt.Errorf("%w: dataset observable %q has no model output", errs.ErrMapping, obs)
		}
	}

	return nil
}

// baseNames lists the mechanistic parameters followed by the error-model
// parameters per output, prefixed with the output name for multi-output
// models.
func (c *Controller) baseNames() []string {
	outputs := c.model.Outputs()
	names := append([]string(nil), c.model.Parameters()...)
	for k, em := range c.noises {
		for _, name := range em.ParameterNames() {
			if len(outputs) > 1 {
				name = outputs[k] + " " + name
			}
			names = append(names, name)
		}
	}

	return names
}

func (c *Controller) freeNames() []string {
	var free []string
	for _, name := range c.baseNames() {
		if _, ok := c.fixed[name]; !ok {
			free = append(free, name)
		}
	}

	return free
}

// fixedTemplate builds the base vector with fixed values pre-filled and
// the base index of every free parameter.
func (c *Controller) fixedTemplate() ([]float64, []int) {
	names := c.baseNames()
	template := make([]float64, len(names))
	var freeIdx []int
	for i, name := range names {
		if value, ok := c.fixed[name]; ok {
			template[i] = value
			continue
		}
		freeIdx = append(freeIdx, i)
	}

	return template, freeIdx
}

func (c *Controller) buildLayout() *layout {
	free := c.freeNames()
	models := make([]population.PopulationModel, len(free))
	for j, name := range free {
		if pm, ok := c.popModels[name]; ok {
			models[j] = pm
			continue
		}
		models[j] = population.NewPooledModel()
	}

	return buildLayout(free, models, c.dataset.IDs())
}

// nPriorParameters returns the dimension the prior must cover.
func (c *Controller) nPriorParameters() int {
	if c.popModels == nil {
		return len(c.freeNames())
	}

	return len(c.buildLayout().covered)
}

func (c *Controller) newEvaluator(id string) *individualEvaluator {
	outputs := c.model.Outputs()
	series := make([]*data.Series, len(outputs))
	for k, out := range outputs {
		series[k] = c.dataset.Observations(id, c.outputToObservable[out])
	}

	return newIndividualEvaluator(c.model, c.noises, series, c.dataset.Regimen(id))
}
