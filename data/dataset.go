package data

import (
	"fmt"
	"math"
	"sort"

	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/mech"
)

// Record is one row of a long-format measurement table. A measurement row
// carries a Value and NaN dose fields; a dose row carries a Dose (and
// optionally a Duration) and a NaN Value. Route is only read on dose rows
// and defaults to oral when empty.
type Record struct {
	ID         string
	Time       float64
	Observable string
	Value      float64
	Dose       float64
	Duration   float64
	Route      mech.Route
}

// NewMeasurement creates a measurement record.
func NewMeasurement(id string, time float64, observable string, value float64) Record {
	return Record{
		ID:         id,
		Time:       time,
		Observable: observable,
		Value:      value,
		Dose:       math.NaN(),
		Duration:   math.NaN(),
	}
}

// NewDose creates a dose record. A non-positive or NaN duration selects
// the default bolus duration.
func NewDose(id string, time, amount, duration float64, route mech.Route) Record {
	return Record{
		ID:       id,
		Time:     time,
		Value:    math.NaN(),
		Dose:     amount,
		Duration: duration,
		Route:    route,
	}
}

// Dataset is an immutable per-individual view over a record table.
type Dataset struct {
	ids          []string
	observables  []string
	observations map[string]map[string]*Series
	regimens     map[string]mech.Regimen
}

// Series holds the observation times and values of one observable for one
// individual, sorted by time.
type Series struct {
	Times  []float64
	Values []float64
}

// Build indexes the records by individual. Measurement rows become
// per-observable series; dose rows become per-individual dosing regimens.
// Negative times, rows that are neither measurement nor dose, and rows
// that are both fail with ErrDataFormat.
func Build(records []Record) (*Dataset, error) {
	ds := &Dataset{
		observations: make(map[string]map[string]*Series),
		regimens:     make(map[string]mech.Regimen),
	}
	doses := make(map[string][]mech.Event)
	observableSet := make(map[string]struct{})

	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no individual ID", errs.ErrDataFormat, i)
		}
		if rec.Time < 0 || math.IsNaN(rec.Time) {
			return nil, fmt.Errorf(
				"%w: record %d (ID %s) has invalid time %v",
				errs.ErrDataFormat, i, rec.ID, rec.Time)
		}

		isMeasurement := !math.IsNaN(rec.Value)
		isDose := !math.IsNaN(rec.Dose)
		switch {
		case isMeasurement && isDose:
			return nil, fmt.Errorf(
				"%w: record %d (ID %s) carries both a value and a dose",
				errs.ErrDataFormat, i, rec.ID)
		case isMeasurement:
			if rec.Observable == "" {
				return nil, fmt.Errorf(
					"%w: record %d (ID %s) has no observable",
					errs.ErrDataFormat, i, rec.ID)
			}
			byObs := ds.observations[rec.ID]
			if byObs == nil {
				byObs = make(map[string]*Series)
				ds.observations[rec.ID] = byObs
				// The ID may already be indexed from an earlier dose row.
				if !containsID(ds.ids, rec.ID) {
					ds.ids = append(ds.ids, rec.ID)
				}
			}
			series := byObs[rec.Observable]
			if series == nil {
				series = &Series{}
				byObs[rec.Observable] = series
			}
			series.Times = append(series.Times, rec.Time)
			series.Values = append(series.Values, rec.Value)
			observableSet[rec.Observable] = struct{}{}
		case isDose:
			duration := rec.Duration
			if math.IsNaN(duration) || duration <= 0 {
				duration = mech.DefaultBolusDuration
			}
			if _, ok := ds.observations[rec.ID]; !ok && !containsID(ds.ids, rec.ID) {
				ds.ids = append(ds.ids, rec.ID)
			}
			doses[rec.ID] = append(doses[rec.ID], mech.Event{
				Amount:   rec.Dose,
				Start:    rec.Time,
				Duration: duration,
				Route:    rec.Route,
			})
		default:
			return nil, fmt.Errorf(
				"%w: record %d (ID %s) is neither a measurement nor a dose",
				errs.ErrDataFormat, i, rec.ID)
		}
	}

	if len(ds.ids) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", errs.ErrDataFormat)
	}
	sort.Strings(ds.ids)

	for id, events := range doses {
		regimen, err := mech.NewRegimen(events...)
		if err != nil {
			return nil, fmt.Errorf("individual %s: %w", id, err)
		}
		ds.regimens[id] = regimen
	}

	for _, byObs := range ds.observations {
		for _, series := range byObs {
			sortSeries(series)
		}
	}

	ds.observables = make([]string, 0, len(observableSet))
	for obs := range observableSet {
		ds.observables = append(ds.observables, obs)
	}
	sort.Strings(ds.observables)

	return ds, nil
}

// IDs returns the individual identifiers in sorted order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.ids))
	copy(ids, d.ids)
	return ids
}

// NIndividuals returns the number of individuals.
func (d *Dataset) NIndividuals() int { return len(d.ids) }

// Observables returns the distinct observable names in sorted order.
func (d *Dataset) Observables() []string {
	obs := make([]string, len(d.observables))
	copy(obs, d.observables)
	return obs
}

// Observations returns the series of one observable for one individual,
// or nil when the individual has no measurements of that observable.
func (d *Dataset) Observations(id, observable string) *Series {
	byObs := d.observations[id]
	if byObs == nil {
		return nil
	}

	return byObs[observable]
}

// Regimen returns the dosing regimen extracted for the individual. An
// individual without dose rows gets an empty regimen.
func (d *Dataset) Regimen(id string) mech.Regimen {
	return d.regimens[id]
}

func sortSeries(s *Series) {
	idx := make([]int, len(s.Times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Times[idx[a]] < s.Times[idx[b]] })

	times := make([]float64, len(idx))
	values := make([]float64, len(idx))
	for i, j := range idx {
		times[i] = s.Times[j]
		values[i] = s.Values[j]
	}
	s.Times, s.Values = times, values
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
