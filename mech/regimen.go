package mech

import (
	"fmt"
	"math"
	"sort"

	"github.com/DavAug/erlotinib/errs"
)

// DefaultBolusDuration is the infusion duration used to approximate a bolus
// dose when no duration is recorded for an administration event.
const DefaultBolusDuration = 0.01

// Route identifies how a dose enters the system.
type Route string

// Administration routes understood by the built-in models. Custom models may
// define additional routes; unknown routes default to oral absorption.
const (
	RouteOral        Route = "oral"
	RouteIntravenous Route = "intravenous"
)

// Event is a single drug administration: an amount administered from Start
// over Duration time units. A Duration of zero (or NaN) marks a bolus dose,
// which is approximated by an infusion of DefaultBolusDuration time units.
type Event struct {
	Amount   float64
	Start    float64
	Duration float64
	Route    Route
}

// EffectiveDuration returns the duration used for simulation, substituting
// DefaultBolusDuration for bolus events.
func (e Event) EffectiveDuration() float64 {
	if e.Duration <= 0 || math.IsNaN(e.Duration) {
		return DefaultBolusDuration
	}

	return e.Duration
}

// Rate returns the constant infusion rate of the event, amount per time unit.
func (e Event) Rate() float64 {
	return e.Amount / e.EffectiveDuration()
}

// End returns the time at which the event stops administering drug.
func (e Event) End() float64 {
	return e.Start + e.EffectiveDuration()
}

// Regimen is the ordered set of administration events applied to one
// individual. The zero value is a valid empty regimen (no doses).
type Regimen struct {
	events []Event
}

// NewRegimen creates a regimen from the given events. Events are sorted by
// start time; the inputs are not modified.
func NewRegimen(events ...Event) (Regimen, error) {
	r := Regimen{events: make([]Event, 0, len(events))}
	for _, event := range events {
		if err := r.Add(event); err != nil {
			return Regimen{}, err
		}
	}

	return r, nil
}

// Add appends an administration event, keeping events ordered by start time.
func (r *Regimen) Add(event Event) error {
	if event.Start < 0 || math.IsNaN(event.Start) {
		return fmt.Errorf("%w: dose event start time %v", errs.ErrDataFormat, event.Start)
	}
	if event.Amount <= 0 || math.IsNaN(event.Amount) {
		return fmt.Errorf("%w: dose event amount %v", errs.ErrDataFormat, event.Amount)
	}

	r.events = append(r.events, event)
	sort.SliceStable(r.events, func(i, j int) bool {
		return r.events[i].Start < r.events[j].Start
	})

	return nil
}

// Events returns the administration events ordered by start time. The
// returned slice is cloned to prevent external modification.
func (r Regimen) Events() []Event {
	events := make([]Event, len(r.events))
	copy(events, r.events)

	return events
}

// IsEmpty reports whether the regimen contains no administration events.
func (r Regimen) IsEmpty() bool {
	return len(r.events) == 0
}

// Len returns the number of administration events.
func (r Regimen) Len() int {
	return len(r.events)
}
