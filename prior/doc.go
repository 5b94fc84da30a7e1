// Package prior provides log-prior distributions over parameter vectors.
//
// A LogPrior scores a parameter vector and draws samples from itself;
// ComposedLogPrior assembles a joint prior from independent marginals, one
// per parameter. All densities are unnormalized only where documented;
// out-of-support vectors score -Inf, never NaN.
package prior
