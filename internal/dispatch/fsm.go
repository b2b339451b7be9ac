package dispatch

import (
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
)

const appointmentRetrySeconds = 60

// Handle applies the FSM transition for ev's current Type at the wall
// clock given by ev.Timer, using strat to choose ambulances/hospitals,
// and reschedules ev (or any cascade event) onto queue as needed (spec.md
// §4.2, §4.8). It is the single shared transition handler for both
// dispatch strategies; Strategy only decides WHICH resource, never HOW
// the state machine advances.
func Handle(c *Context, strat Strategy, ev *event.Event, queue *event.Queue) {
	switch ev.Type {
	case event.AssigningAmbulance:
		handleAssigningAmbulance(c, strat, ev, queue)
	case event.DispatchingToScene:
		handleDispatchingToScene(c, strat, ev, queue)
	case event.DispatchingToHospital:
		handleDispatchingToHospital(c, ev, queue)
	case event.PreparingDispatchToDepot:
		handleDispatchToDepot(c, ev, queue)
	case event.DispatchingToDepot:
		handleArrivedAtDepot(c, ev, queue)
	case event.Finished:
		handleFinished(c, ev, queue)
	default:
		// ResourceAppointment and PreparingDispatchToScene are not reached
		// as independent resting states under strategies RANDOM/CLOSEST
		// (spec.md §4.2's "immediately" transitions fold them into the
		// ASSIGNING_AMBULANCE handling below); no-op if seen directly.
	}
}

// handleAssigningAmbulance implements spec.md §4.2's ASSIGNING_AMBULANCE
// row: choose an ambulance, preempting a lower-triage dispatch if needed;
// on success, charge the preparing-to-depart wait and immediately advance
// through the full scene-bound leg, resting at DISPATCHING_TO_SCENE with
// the ambulance's CurrentGridID left at its pre-departure location (so a
// later, higher-triage incident can still interpolate and preempt it). On
// failure, charge the 60s appointment-retry wait and stay in
// ASSIGNING_AMBULANCE (spec.md §9: this deliberately overcounts and must
// not be "fixed").
func handleAssigningAmbulance(c *Context, strat Strategy, ev *event.Event, queue *event.Queue) {
	amb, ok := strat.ChooseAmbulance(c, ev, ev.Timer)
	if !ok {
		ev.UpdateTimer(appointmentRetrySeconds, event.MetricAppointment, nil)
		queue.Schedule(ev)
		return
	}

	if !amb.Idle() {
		if !preempt(c, amb, ev, ev.Timer) {
			// Interpolated position unknown; treat exactly like "no
			// ambulance found" for this pass.
			ev.UpdateTimer(appointmentRetrySeconds, event.MetricAppointment, nil)
			queue.Schedule(ev)
			return
		}
	}

	ev.AssignedAmbulanceID = amb.ID
	amb.AssignedEventID = ev.ID

	ev.UpdateTimer(ev.SecondsWaitResourcePreparingDeparture, event.MetricPreparing, credit(amb))

	travelSeconds := c.Oracle.EstimateOrFallback(amb.CurrentGridID, ev.IncidentGridID, ev.Triage, ev.Time(c.Epoch), false)
	ev.GridID = ev.IncidentGridID
	ev.UpdateTimer(travelSeconds, event.MetricDispatchingToScene, credit(amb))
	ev.Type = event.DispatchingToScene
	queue.Schedule(ev)
}

// handleDispatchingToScene implements the arrival-at-scene row: the
// ambulance has physically arrived, so its CurrentGridID is updated now
// (not earlier). If the call requires hospital transport, choose a
// hospital and advance to DISPATCHING_TO_HOSPITAL; otherwise this is a
// cancel-on-scene: SecondsWaitAvailable is charged as the at-scene wait
// and the event then cascades into the shared depot-dispatch path
// (spec.md §4.2).
func handleDispatchingToScene(c *Context, strat Strategy, ev *event.Event, queue *event.Queue) {
	amb := c.ambulanceByID(ev.AssignedAmbulanceID)
	amb.CurrentGridID = ev.IncidentGridID

	if ev.SecondsWaitDepartureScene >= 0 {
		ev.UpdateTimer(ev.SecondsWaitDepartureScene, event.MetricAtScene, credit(amb))

		hospitalIdx, ok := strat.ChooseHospital(c, ev)
		if !ok {
			hospitalIdx = ev.DepotIndexResponsible
		}
		hospitalGrid := c.Tables.Stations[hospitalIdx].Grid
		travelSeconds := c.Oracle.EstimateOrFallback(ev.GridID, hospitalGrid, ev.Triage, ev.Time(c.Epoch), false)
		ev.GridID = hospitalGrid
		ev.UpdateTimer(travelSeconds, event.MetricDispatchingToHospital, credit(amb))
		ev.Type = event.DispatchingToHospital
		queue.Schedule(ev)
		return
	}

	ev.UpdateTimer(ev.SecondsWaitAvailable, event.MetricAtScene, credit(amb))
	ev.Type = event.PreparingDispatchToDepot
	handleDispatchToDepot(c, ev, queue)
}

// handleDispatchingToHospital implements the arrival-at-hospital row:
// charge the at-hospital wait and cascade into the shared depot-dispatch
// path (spec.md §4.2).
func handleDispatchingToHospital(c *Context, ev *event.Event, queue *event.Queue) {
	amb := c.ambulanceByID(ev.AssignedAmbulanceID)
	amb.CurrentGridID = ev.GridID

	ev.UpdateTimer(ev.SecondsWaitAvailable, event.MetricAtHospital, credit(amb))
	ev.Type = event.PreparingDispatchToDepot
	handleDispatchToDepot(c, ev, queue)
}

// handleDispatchToDepot implements the shared PREPARING_DISPATCH_TO_DEPOT
// step: it computes the traffic-forced travel leg to the ambulance's
// allocated depot, advances the timer by it (charged to
// MetricDispatchingToDepot), and rests at DISPATCHING_TO_DEPOT (spec.md
// §9: this leg, unlike the others, always forces the traffic factor).
func handleDispatchToDepot(c *Context, ev *event.Event, queue *event.Queue) {
	amb := c.ambulanceByID(ev.AssignedAmbulanceID)
	targetGrid := c.Tables.Stations[amb.AllocatedDepotIndex].Grid

	travelSeconds := c.Oracle.EstimateOrFallback(amb.CurrentGridID, targetGrid, ev.Triage, ev.Time(c.Epoch), true)
	ev.GridID = targetGrid
	ev.UpdateTimer(travelSeconds, event.MetricDispatchingToDepot, credit(amb))
	ev.Type = event.DispatchingToDepot
	queue.Schedule(ev)
}

// handleArrivedAtDepot implements the DISPATCHING_TO_DEPOT arrival row:
// the ambulance has physically returned, so it cascades immediately into
// FINISHED (spec.md §4.2 table: "Time advanced by: —").
func handleArrivedAtDepot(c *Context, ev *event.Event, queue *event.Queue) {
	amb := c.ambulanceByID(ev.AssignedAmbulanceID)
	amb.CurrentGridID = ev.GridID
	ev.Type = event.Finished
	handleFinished(c, ev, queue)
}

// handleFinished implements the FINISHED row: if the ambulance's
// allocated depot changed while it was out on this call (a mid-day
// reallocation), it is re-dispatched for one more traffic-forced leg to
// its new depot; otherwise it is released as idle and the event
// tombstoned (spec.md §4.2, table row "allocated depot changed").
func handleFinished(c *Context, ev *event.Event, queue *event.Queue) {
	amb := c.ambulanceByID(ev.AssignedAmbulanceID)
	if c.Tables.Stations[amb.AllocatedDepotIndex].Grid != amb.CurrentGridID {
		ev.Type = event.PreparingDispatchToDepot
		handleDispatchToDepot(c, ev, queue)
		return
	}

	amb.AssignedEventID = ambulance.NoEvent
	ev.Type = event.None
}

// credit returns a sink that charges delta onto amb's TimeUnavailable,
// or nil if amb is nil (spec.md §9 "arena + index": event package never
// imports ambulance directly).
func credit(amb *ambulance.Ambulance) func(int64) {
	if amb == nil {
		return nil
	}
	return func(delta int64) {
		amb.TimeUnavailable += delta
	}
}
