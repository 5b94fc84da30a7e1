// Package diag computes convergence summaries for MCMC runs: posterior
// mean and standard deviation, Monte Carlo standard error, split R-hat
// and effective sample size per parameter.
//
// The first half of every chain is treated as warm-up and excluded.
package diag
