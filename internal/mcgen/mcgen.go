// Package mcgen synthesizes the event sequence the simulator core
// consumes (spec.md §6 "Event generator (input to core)"). A faithful
// weighted-KDE historical resampler is explicitly out of scope of the
// distilled spec ("treated as external collaborators", spec.md §1); this
// package implements a deliberately simplified weighted-resampling
// generator — enough to drive the simulator and optimizer end to end and
// to exercise them in tests — grounded on the teacher's
// sim/workload/distribution.go EmpiricalPDFSampler (sorted values + CDF +
// binary search, here re-purposed as per-hour bootstrap resampling of
// historical incident records instead of token-length sampling).
package mcgen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// HistoricalIncident is one ingested historical record, reduced to the
// fields this generator resamples from (spec.md §6 "Incidents
// (historical, ingested by the MC generator)"). DepotIndexResponsible is
// assumed already resolved upstream by the ingestion pipeline (SPEC_FULL
// §4 Non-goals: "geographic projection" stays out of scope here).
type HistoricalIncident struct {
	Triage                 travel.Triage
	Weekday                time.Weekday
	Hour                   int
	GridID                 tables.GridID
	DepotIndexResponsible  int

	SecondsWaitCallAnswered               int64
	SecondsWaitAppointingResource         int64
	SecondsWaitResourcePreparingDeparture int64
	SecondsWaitDepartureScene             int64
	SecondsWaitAvailable                  int64
}

// Generator resamples HistoricalIncident records bucketed by hour of
// day (spec.md §6 "SIMULATION_GENERATION_WINDOW_SIZE" names the
// day-proximity window a full implementation would weight by; this
// simplified resampler buckets by hour only and draws uniformly within
// a bucket).
type Generator struct {
	byHour map[int][]HistoricalIncident
}

// NewGenerator groups historical by hour-of-day.
func NewGenerator(historical []HistoricalIncident) *Generator {
	g := &Generator{byHour: make(map[int][]HistoricalIncident)}
	for _, h := range historical {
		g.byHour[h.Hour] = append(g.byHour[h.Hour], h)
	}
	return g
}

// ErrNoHistoricalData is returned when Generate needs a draw from an
// hour bucket that has no historical records at all.
var ErrNoHistoricalData = fmt.Errorf("mcgen: no historical incidents available for resampling")

// GenerateConfig parametrizes one day's synthesis (spec.md §6
// SIMULATE_YEAR/MONTH/DAY, DAY_SHIFT_START/END, NUM_TIME_SEGMENTS).
type GenerateConfig struct {
	Epoch          time.Time // midnight of the simulated day
	ShiftStartHour int
	ShiftEndHour   int // exclusive
	CallsPerHour   int // expected draws per hour; spec.md treats real intensity modeling as external
	ShiftLength    int64
	NumSegments    int
}

// Generate draws CallsPerHour historical incidents (with replacement,
// uniform weight within the matching hour bucket) for every hour in
// [ShiftStartHour, ShiftEndHour), materializes one AssigningAmbulance
// event per draw, and appends one Utility reallocation-tick event at
// each interior time-segment boundary (spec.md §4.5 "mid-day
// reallocation", §6 "utility events denote reallocation wake-ups only").
func (g *Generator) Generate(cfg GenerateConfig, rng *rand.Rand) ([]*event.Event, error) {
	var events []*event.Event
	nextID := 0

	for hour := cfg.ShiftStartHour; hour < cfg.ShiftEndHour; hour++ {
		// ShiftEndHour may exceed 24 for a shift that wraps past midnight
		// (spec.md §6 "DAY_SHIFT_START/END"); the historical bucket is
		// still keyed by hour-of-day, so look it up modulo 24 while
		// keeping the absolute hour for CallReceived's seconds offset.
		bucket := g.byHour[hour%24]
		if len(bucket) == 0 {
			return nil, fmt.Errorf("%w: hour %d", ErrNoHistoricalData, hour%24)
		}
		for i := 0; i < cfg.CallsPerHour; i++ {
			rec := bucket[rng.Intn(len(bucket))]
			callReceived := int64(hour*3600+rng.Intn(3600))

			ev := &event.Event{
				ID:                                    nextID,
				Type:                                  event.AssigningAmbulance,
				Triage:                                rec.Triage,
				IncidentGridID:                        rec.GridID,
				GridID:                                rec.GridID,
				DepotIndexResponsible:                 rec.DepotIndexResponsible,
				AssignedAmbulanceID:                   event.NoAmbulance,
				CallReceived:                          callReceived,
				Timer:                                 callReceived + rec.SecondsWaitCallAnswered,
				PrevTimer:                             callReceived,
				SecondsWaitCallAnswered:               rec.SecondsWaitCallAnswered,
				SecondsWaitAppointingResource:         rec.SecondsWaitAppointingResource,
				SecondsWaitResourcePreparingDeparture: rec.SecondsWaitResourcePreparingDeparture,
				SecondsWaitDepartureScene:             rec.SecondsWaitDepartureScene,
				SecondsWaitAvailable:                  rec.SecondsWaitAvailable,
			}
			// MetricCreation is deliberately left at its zero value: no FSM
			// transition charges the call-answering wait (it happens before
			// AssigningAmbulance is ever handled), and the original
			// implementation's duration_incident_creation metric is likewise
			// never assigned (original_source/source/simulator/Event.cpp:33,
			// include/simulator/Event.hpp:23) — SecondsWaitCallAnswered is
			// still tracked on the event for callers that need it, it just
			// does not feed ResponseTime().
			nextID++
			events = append(events, ev)
		}
	}

	for t := 1; t < cfg.NumSegments; t++ {
		segLen := cfg.ShiftLength / int64(cfg.NumSegments)
		ev := &event.Event{
			ID: nextID,
			// Type is never consulted for Utility events (the simulator
			// intercepts on the Utility flag before reaching dispatch.Handle),
			// but it must be non-NONE or Queue.NextLive would treat it as an
			// already-discarded tombstone and skip it.
			Type:    event.AssigningAmbulance,
			Utility: true,
			Timer:   int64(cfg.ShiftStartHour)*3600 + int64(t)*segLen,
		}
		nextID++
		events = append(events, ev)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Timer < events[j].Timer })
	return events, nil
}
