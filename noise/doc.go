// Package noise provides measurement error models.
//
// An error model describes how a real measurement deviates from the
// mechanistic model's noiseless prediction. Every variant implements the
// same flat ErrorModel interface: a summed log-density of observations
// around a simulated series, a sampler for synthetic measurements, and
// parameter bookkeeping. There is no inheritance between variants; each one
// is independent and the inference code composes them per model output.
//
// All log-density methods return -Inf (never NaN) for parameters outside
// their support, e.g. a non-positive standard deviation, so that an MCMC
// proposal landing there is rejected rather than crashing the run.
package noise
