// Package event implements the incident finite-state machine, its metric
// accumulation, and the event queue that drives the simulator (spec.md §3,
// §4.2, §4.3, §4.8).
package event

import (
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// State is the FSM state of an Event (spec.md §4.2).
type State int

const (
	AssigningAmbulance State = iota
	ResourceAppointment
	PreparingDispatchToScene
	DispatchingToScene
	DispatchingToHospital
	PreparingDispatchToDepot
	DispatchingToDepot
	Finished
	None
)

// MetricKey names one of the fixed accumulator slots in Event.Metrics
// (spec.md §3).
type MetricKey int

const (
	MetricCreation MetricKey = iota
	MetricAppointment
	MetricPreparing
	MetricDispatchingToScene
	MetricAtScene
	MetricDispatchingToHospital
	MetricAtHospital
	MetricDispatchingToDepot
	metricCount
)

// ambulanceBusyMetrics are the metric keys that also accrue to the
// assigned ambulance's TimeUnavailable when charged (spec.md §4.2 step 2).
var ambulanceBusyMetrics = map[MetricKey]bool{
	MetricPreparing:             true,
	MetricDispatchingToScene:    true,
	MetricAtScene:               true,
	MetricDispatchingToHospital: true,
	MetricAtHospital:            true,
}

// NoAmbulance is the sentinel AssignedAmbulanceID meaning "no ambulance
// assigned yet".
const NoAmbulance = -1

// Event is the central entity of the simulation (spec.md §3).
type Event struct {
	ID   int
	Type State

	Timer     int64 // current wall-clock time of this event, seconds since epoch/run start
	PrevTimer int64

	AssignedAmbulanceID int // NoAmbulance when unset

	// DepotIndexResponsible is the depot area geographically responsible
	// for this incident, fixed at event creation from the incident's
	// location (spec.md §4.4 "per-depot violation rates"); it never
	// changes with which ambulance ends up responding.
	DepotIndexResponsible int

	Triage travel.Triage

	GridID         tables.GridID // current target cell of the ambulance
	IncidentGridID tables.GridID // incident origin

	CallReceived int64

	// Service-duration inputs, in seconds. -1 encodes "absent" (e.g.
	// cancelled on scene, no hospital transport), per spec.md §3.
	SecondsWaitCallAnswered               int64
	SecondsWaitAppointingResource         int64
	SecondsWaitResourcePreparingDeparture int64
	SecondsWaitDepartureScene             int64
	SecondsWaitAvailable                  int64

	Metrics [metricCount]int64

	// Utility is true for events that only serve as scheduled wake-ups
	// (e.g. reallocation ticks); they never carry a real incident.
	Utility bool

	// sequence is the insertion order, used only to break Timer ties
	// deterministically (FIFO), never observable outside the queue.
	sequence int64
}

// UpdateTimer advances Timer by delta seconds, charges the metric, and —
// if the metric is one of the "ambulance-busy" metrics and an ambulance
// is assigned — charges that ambulance's TimeUnavailable (spec.md §4.2
// step 2). creditUnavailable is a caller-supplied sink so this package
// does not need to import ambulance (arena+index separation, spec.md §9).
func (e *Event) UpdateTimer(delta int64, key MetricKey, creditUnavailable func(int64)) {
	e.PrevTimer = e.Timer
	e.Timer += delta
	e.Metrics[key] += delta
	if ambulanceBusyMetrics[key] && creditUnavailable != nil {
		creditUnavailable(delta)
	}
}

// ResponseTime is the sum of the four metrics that define response time
// (spec.md §4.4, §8 property 5).
func (e *Event) ResponseTime() int64 {
	return e.Metrics[MetricCreation] + e.Metrics[MetricAppointment] +
		e.Metrics[MetricPreparing] + e.Metrics[MetricDispatchingToScene]
}

// Time interprets Timer as an absolute wall-clock time for traffic-table
// lookups, given the run's epoch.
func (e *Event) Time(epoch time.Time) time.Time {
	return epoch.Add(time.Duration(e.Timer) * time.Second)
}

// Live reports whether this event still has live work (spec.md §4.3:
// "type != NONE considered live").
func (e *Event) Live() bool {
	return e.Type != None
}
