package mech

import (
	"fmt"
	"math"

	"github.com/DavAug/erlotinib/errs"
)

// OneCompartmentModel is a closed-form one-compartment pharmacokinetic model
// with first-order absorption and first-order elimination:
//
//	dA_gut/dt     = -k_a * A_gut     + r_oral(t)
//	dA_central/dt =  k_a * A_gut - k_e * A_central + r_iv(t)
//	concentration =  A_central / V
//
// Oral dose events feed the gut compartment, intravenous events feed the
// central compartment directly. Dose rates are piecewise constant, so the
// system is solved exactly on each interval between event boundaries; no
// numerical integration is involved.
//
// Parameters, in order: k_a (absorption rate), k_e (elimination rate),
// V (volume of distribution).
type OneCompartmentModel struct {
	output string
}

var _ Model = (*OneCompartmentModel)(nil)

// DefaultOutputName is the observable name reported by the built-in
// one-compartment model unless overridden with WithOutputName.
const DefaultOutputName = "central.drug_concentration"

// OneCompartmentOption configures a OneCompartmentModel.
type OneCompartmentOption func(*OneCompartmentModel)

// WithOutputName overrides the name of the concentration output.
func WithOutputName(name string) OneCompartmentOption {
	return func(m *OneCompartmentModel) {
		m.output = name
	}
}

// NewOneCompartmentModel creates a one-compartment PK model.
func NewOneCompartmentModel(opts ...OneCompartmentOption) *OneCompartmentModel {
	m := &OneCompartmentModel{output: DefaultOutputName}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Parameters returns the ordered parameter names: k_a, k_e, V.
func (m *OneCompartmentModel) Parameters() []string {
	return []string{"k_a", "k_e", "V"}
}

// Outputs returns the single concentration output name.
func (m *OneCompartmentModel) Outputs() []string {
	return []string{m.output}
}

// Simulate evaluates the model at the requested times.
//
// An observation at exactly a dose start time reflects the pre-dose state:
// a dose event contributes drug only for t greater than its start time.
func (m *OneCompartmentModel) Simulate(parameters, times []float64, regimen Regimen) (map[string][]float64, error) {
	if len(parameters) != 3 {
		return nil, fmt.Errorf("%w: one-compartment model takes 3 parameters, got %d",
			errs.ErrDimensionMismatch, len(parameters))
	}

	ka, ke, volume := parameters[0], parameters[1], parameters[2]
	if !(ka > 0) || !(ke > 0) || !(volume > 0) {
		return nil, fmt.Errorf("%w: parameter domain requires k_a, k_e, V > 0 (k_a=%v, k_e=%v, V=%v)",
			errs.ErrSimulation, ka, ke, volume)
	}

	for i, t := range times {
		if t < 0 || math.IsNaN(t) {
			return nil, fmt.Errorf("%w: negative or NaN observation time %v", errs.ErrSimulation, t)
		}
		if i > 0 && t < times[i-1] {
			return nil, fmt.Errorf("%w: observation times must be non-decreasing", errs.ErrSimulation)
		}
	}

	values := make([]float64, len(times))
	events := regimen.Events()

	var gut, central float64
	now := 0.0
	for i, t := range times {
		// Advance the state across every event boundary between the current
		// position and the observation time, then to the observation itself.
		for {
			next := t
			for _, event := range events {
				if event.Start > now && event.Start < next {
					next = event.Start
				}
				if end := event.End(); end > now && end < next {
					next = end
				}
			}

			gut, central = m.advance(gut, central, ka, ke, now, next, events)
			now = next
			if now == t {
				break
			}
		}

		concentration := central / volume
		if math.IsNaN(concentration) || math.IsInf(concentration, 0) || concentration < 0 {
			return nil, fmt.Errorf("%w: implausible concentration %v at t=%v",
				errs.ErrSimulation, concentration, t)
		}
		values[i] = concentration
	}

	return map[string][]float64{m.output: values}, nil
}

// advance solves the system exactly from t0 to t1, a span on which all dose
// rates are constant. Events are active on the half-open interval
// (start, end], which yields the pre-dose convention at boundaries.
func (m *OneCompartmentModel) advance(gut, central, ka, ke, t0, t1 float64, events []Event) (float64, float64) {
	if t1 <= t0 {
		return gut, central
	}

	var oralRate, ivRate float64
	for _, event := range events {
		if event.Start <= t0 && event.End() >= t1 {
			if event.Route == RouteIntravenous {
				ivRate += event.Rate()
			} else {
				oralRate += event.Rate()
			}
		}
	}

	tau := t1 - t0

	// Gut: A_g' = -k_a A_g + r_oral has the solution
	// A_g(tau) = c1 + c2 exp(-k_a tau) with c1 = r_oral/k_a.
	c1 := oralRate / ka
	c2 := gut - c1
	newGut := c1 + c2*math.Exp(-ka*tau)

	// Central: A_c' = k_a A_g - k_e A_c + r_iv.
	expKe := math.Exp(-ke * tau)
	newCentral := central*expKe + (ka*c1+ivRate)/ke*(1-expKe)

	// Transient absorption term; degenerates to tau*exp(-k tau) when the
	// rate constants coincide.
	if diff := ke - ka; math.Abs(diff) > 1e-12*ke {
		newCentral += ka * c2 * (math.Exp(-ka*tau) - expKe) / diff
	} else {
		newCentral += ka * c2 * tau * math.Exp(-ka*tau)
	}

	return newGut, newCentral
}
