// Package erlotinib builds hierarchical Bayesian inference problems for
// pharmacokinetic/pharmacodynamic models and samples their posteriors
// with MCMC.
//
// A typical analysis wires five layers together:
//
//   - a mechanistic model (mech) simulating output series over time under
//     a dosing regimen
//   - error models (noise) describing measurement noise per output
//   - a dataset (data) indexed by individual, with per-individual dosing
//     regimens extracted from dose rows
//   - optional population models (population) attaching hierarchical
//     variation to named parameters
//   - a prior (prior) over the sampled parameter vector
//
// # Basic Usage
//
// Assembling and sampling a single-individual problem:
//
//	import "github.com/DavAug/erlotinib"
//
//	model := erlotinib.NewOneCompartmentModel()
//	ds, _ := erlotinib.BuildDataset(records)
//
//	ctrl := erlotinib.NewProblem()
//	_ = ctrl.SetMechanisticModel(model, map[string]string{
//	    erlotinib.DefaultOutputName: "conc",
//	})
//	_ = ctrl.SetErrorModels([]noise.ErrorModel{noise.NewGaussianErrorModel()})
//	_ = ctrl.SetData(ds)
//	_ = ctrl.SetLogPrior(myPrior)
//
//	posteriors, _ := ctrl.LogPosteriors()
//	samples, _ := erlotinib.Sample(posteriors[0],
//	    sampler.WithChains(4),
//	    sampler.WithIterations(10000),
//	)
//
// The samples collection feeds the diag package for convergence
// summaries, the predict package for posterior predictive checks, and
// the trace package for binary persistence.
//
// # Package Structure
//
// This package provides thin top-level wrappers around the problem and
// sampler packages for the most common use cases. For fine-grained
// control, use the subpackages directly.
package erlotinib

import (
	"github.com/DavAug/erlotinib/data"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/problem"
	"github.com/DavAug/erlotinib/sampler"
)

// DefaultOutputName is the concentration output name of the built-in
// one-compartment model.
const DefaultOutputName = mech.DefaultOutputName

// NewOneCompartmentModel creates the built-in one-compartment
// pharmacokinetic model.
func NewOneCompartmentModel(opts ...mech.OneCompartmentOption) *mech.OneCompartmentModel {
	return mech.NewOneCompartmentModel(opts...)
}

// BuildDataset indexes long-format records into a per-individual dataset.
func BuildDataset(records []data.Record) (*data.Dataset, error) {
	return data.Build(records)
}

// NewProblem creates an empty problem modelling controller.
func NewProblem() *problem.Controller {
	return problem.NewController()
}

// Sample runs Metropolis-Hastings over the posterior with the given
// controller options and a default proposal step size.
func Sample(posterior *problem.LogPosterior, opts ...sampler.Option) (*sampler.SamplesCollection, error) {
	ctrl := sampler.NewController(opts...)
	return ctrl.Run(posterior, sampler.NewMetropolisHastings(0.1))
}
