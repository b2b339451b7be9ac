package dispatch

import (
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// triageRank orders triage by priority, high to low: A > H > V1
// (spec.md §4.2).
func triageRank(t travel.Triage) int {
	switch t {
	case travel.TriageAcute:
		return 3
	case travel.TriageUrgent:
		return 2
	default:
		return 1
	}
}

// Available reports whether amb may be dispatched to an incident of
// newTriage at wall-clock now (spec.md §4.2 "Ambulance availability").
// It also applies the break state-machine as a side effect, matching the
// source's combined availability-check-and-break-transition behavior.
func Available(c *Context, amb *ambulance.Ambulance, now int64, newTriage travel.Triage) bool {
	amb.UpdateBreakState(now)
	if amb.OnBreak() {
		return false
	}
	if amb.Idle() {
		return true
	}
	cur, ok := c.Events[amb.AssignedEventID]
	if !ok {
		return true
	}
	if cur.Type == event.DispatchingToDepot {
		return true
	}
	if c.PrioritizeTriage && cur.Type == event.DispatchingToScene && triageRank(cur.Triage) < triageRank(newTriage) {
		return true
	}
	return false
}

// interpolatedLocation approximates amb's present position while it is
// mid-leg on its current event, by linearly interpolating between
// amb.CurrentGridID and cur.GridID over the elapsed fraction of the
// known travel duration (spec.md §4.2 "Mid-trip reassignment"; §9 notes
// grid ids are opaque integer keys rather than projected coordinates, so
// interpolation here is over the integer key space — a deliberate
// simplification since true geographic interpolation is a Non-goal).
func interpolatedLocation(c *Context, amb *ambulance.Ambulance, cur *event.Event, now int64) (tables.GridID, bool) {
	span := cur.Timer - cur.PrevTimer
	if span <= 0 {
		return amb.CurrentGridID, c.Tables.OD.Has(amb.CurrentGridID)
	}
	frac := float64(now-cur.PrevTimer) / float64(span)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	origin, dest := int64(amb.CurrentGridID), int64(cur.GridID)
	approx := tables.GridID(origin + int64(frac*float64(dest-origin)))
	return approx, c.Tables.OD.Has(approx)
}

// candidateAmbulances returns the ambulances available to serve an
// incident of triage at wall-clock now, in stable depot-index order
// (spec.md §9 "first encountered in depot order" tie-break). Ambulances
// whose mid-trip interpolated position would fall on an unknown grid
// cell are excluded (spec.md §4.2).
func candidateAmbulances(c *Context, triage travel.Triage, now int64) []*ambulance.Ambulance {
	var out []*ambulance.Ambulance
	for _, amb := range c.Ambulances {
		if !Available(c, amb, now, triage) {
			continue
		}
		if !amb.Idle() {
			if cur, ok := c.Events[amb.AssignedEventID]; ok {
				if _, ok := interpolatedLocation(c, amb, cur, now); !ok {
					continue
				}
			}
		}
		out = append(out, amb)
	}
	return out
}

// preempt performs a mid-trip reassignment of amb from its current event
// to newEvent (spec.md §4.2 "Mid-trip reassignment"). Returns false
// (leaving amb and the interrupted event untouched) if the ambulance's
// interpolated position falls on an unknown grid cell, per spec.md
// "that ambulance is skipped".
func preempt(c *Context, amb *ambulance.Ambulance, newEvent *event.Event, now int64) bool {
	if amb.Idle() {
		return true
	}
	cur, ok := c.Events[amb.AssignedEventID]
	if !ok {
		return true
	}
	loc, ok := interpolatedLocation(c, amb, cur, now)
	if !ok {
		return false
	}

	completed := now - cur.PrevTimer
	if completed < 0 {
		completed = 0
	}
	cur.Metrics[event.MetricDispatchingToDepot] += completed
	cur.Type = event.None

	amb.CurrentGridID = loc
	return true
}
