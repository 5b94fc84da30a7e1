// Package problem assembles datasets, mechanistic models, error models,
// population models and priors into evaluable log-likelihoods and
// log-posteriors.
//
// The Controller is the single construction surface: bind a mechanistic
// model and observable mapping, attach one error model per output, index
// the data, optionally attach population models and fix parameters, set a
// prior, and derive LogPosterior values for sampling. All derived
// evaluation objects are immutable and safe for concurrent use; parameter
// vectors are addressed through a layout built once at construction time,
// never by ad hoc positions.
package problem
