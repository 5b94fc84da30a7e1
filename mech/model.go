package mech

// Model is the mechanistic simulator contract consumed by the inference
// machinery.
//
// Implementations must be stateless with respect to Simulate: repeated calls
// with identical inputs must return identical outputs, and concurrent calls
// from independent chains must be safe. Expensive simulations should bound
// their own run time (step limits, convergence limits) and report failure as
// an error wrapping errs.ErrSimulation rather than blocking indefinitely.
type Model interface {
	// Parameters returns the ordered names of the model parameters. The
	// order fixes how Simulate interprets its parameter vector and never
	// changes for a given model instance.
	Parameters() []string

	// Outputs returns the ordered names of the simulated observables.
	Outputs() []string

	// Simulate runs the model for the given parameter vector and dosing
	// regimen, returning one value per requested time for each output.
	//
	// Times must be non-negative and non-decreasing. Errors wrap
	// errs.ErrSimulation for solver failures and illegal parameter domains,
	// and errs.ErrDimensionMismatch for a wrong-length parameter vector.
	Simulate(parameters []float64, times []float64, regimen Regimen) (map[string][]float64, error)
}
