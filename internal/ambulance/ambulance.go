// Package ambulance models the ambulance resource: location, break
// schedule, and the event it is currently assigned to (spec.md §3).
package ambulance

import "github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"

// NoEvent is the sentinel assignedEventID value meaning "idle".
const NoEvent = -1

// breakLengthSeconds is the fixed duration of a scheduled break.
const breakLengthSeconds = 30 * 60

// Ambulance is created by the allocator and owned by the simulation for
// the lifetime of one evaluation (spec.md §3, §9 "arena + index").
type Ambulance struct {
	ID                   int
	AllocatedDepotIndex  int
	CurrentGridID        tables.GridID
	AssignedEventID      int
	TimeUnavailable      int64
	TimeNotWorking       int64
	ScheduledBreaks      []int64 // ordered wall-clock timestamps
	TimeBreakStarted     int64
	BreakLength          int64
}

// New creates an idle ambulance stationed at depot.
func New(id int, depotIndex int, depotGrid tables.GridID) *Ambulance {
	return &Ambulance{
		ID:                  id,
		AllocatedDepotIndex: depotIndex,
		CurrentGridID:       depotGrid,
		AssignedEventID:     NoEvent,
	}
}

// Idle reports whether the ambulance has no assigned event.
func (a *Ambulance) Idle() bool {
	return a.AssignedEventID == NoEvent
}

// OnBreak reports whether the ambulance is currently inside a break
// window.
func (a *Ambulance) OnBreak() bool {
	return a.BreakLength > 0
}

// UpdateBreakState applies spec.md §4.2's break-entry/exit rule at wall
// clock now: if idle and the next scheduled break has arrived, enter a
// 30-minute break; if on break and the window has elapsed, clear it and
// credit TimeNotWorking.
func (a *Ambulance) UpdateBreakState(now int64) {
	if a.OnBreak() {
		if now-a.TimeBreakStarted >= a.BreakLength {
			a.TimeNotWorking += a.BreakLength
			a.BreakLength = 0
			a.TimeBreakStarted = 0
		}
		return
	}
	if !a.Idle() || len(a.ScheduledBreaks) == 0 {
		return
	}
	if a.ScheduledBreaks[0] <= now {
		a.TimeBreakStarted = now
		a.BreakLength = breakLengthSeconds
		a.ScheduledBreaks = a.ScheduledBreaks[1:]
	}
}
