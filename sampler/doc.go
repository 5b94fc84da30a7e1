// Package sampler drives MCMC over a log-posterior target.
//
// The Controller owns the iterate/evaluate loop only; proposal mechanics
// live behind the Algorithm ask/tell contract so samplers are pluggable.
// Each chain gets its own seeded random source, which makes runs
// reproducible in both sequential and parallel execution.
package sampler
