// Package predict draws synthetic measurements from fitted models.
//
// PredictiveModel samples the measurement distribution at a fixed
// parameter vector; PosteriorPredictiveModel marginalizes over an MCMC
// samples collection by drawing parameter vectors uniformly from the
// post-warm-up iterations.
package predict
