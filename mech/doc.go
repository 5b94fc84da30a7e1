// Package mech defines the mechanistic-model contract consumed by the
// inference machinery, together with dosing regimens and a closed-form
// one-compartment pharmacokinetic reference model.
//
// A mechanistic model is a parametric dynamical simulator of drug
// concentration or effect over time. The inference code treats it as a black
// box behind the Model interface: given a parameter vector, a list of
// observation times and a dosing regimen it returns one simulated series per
// named output. Any failure (solver non-convergence, illegal parameter
// domain, implausible implied state) must be reported as an error wrapping
// errs.ErrSimulation; likelihood code converts such failures into a -Inf
// log-density instead of propagating them.
package mech
