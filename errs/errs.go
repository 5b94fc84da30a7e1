// Package errs defines the sentinel errors shared across the erlotinib
// packages.
//
// Structural and configuration errors surface immediately at assembly time
// and are never silently ignored. Numerical errors that occur while a
// likelihood is being evaluated are not represented here at all: they are
// absorbed into a -Inf log-density so that a single infeasible proposal
// cannot crash a long-running sampling job.
//
// Callers should match errors with errors.Is:
//
//	_, err := controller.LogPosterior()
//	if errors.Is(err, errs.ErrIncompleteProblem) {
//	    // a construction step is missing
//	}
package errs

import "errors"

var (
	// ErrConfiguration indicates an inconsistent controller setup, e.g. a
	// mismatch between the number of error models and model outputs.
	ErrConfiguration = errors.New("inconsistent problem configuration")

	// ErrIncompleteProblem indicates that a log-likelihood or log-posterior
	// was requested before all required construction steps completed.
	ErrIncompleteProblem = errors.New("incomplete problem configuration")

	// ErrDataFormat indicates a malformed dataset or dosing regimen, e.g.
	// an observation at a negative time.
	ErrDataFormat = errors.New("malformed dataset")

	// ErrMapping indicates that a dataset observable could not be matched
	// to a mechanistic model output.
	ErrMapping = errors.New("unmapped observable")

	// ErrUnknownParameter indicates a parameter name that does not exist in
	// the model, e.g. in a fix-parameters request.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrSimulation indicates a mechanistic model failure: solver
	// non-convergence, an illegal parameter domain, or an implausible
	// implied state such as a negative concentration.
	ErrSimulation = errors.New("simulation failed")

	// ErrDimensionMismatch indicates a parameter vector of the wrong length
	// passed to an evaluation object. This is a caller bug and is fatal.
	ErrDimensionMismatch = errors.New("parameter vector dimension mismatch")
)
