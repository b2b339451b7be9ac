// Package simulator drains an event queue through the dispatch FSM and
// reports aggregate response-time metrics (spec.md §4.4).
package simulator

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/dispatch"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// violationThresholdSeconds is the response-time ceiling per (triage,
// urbanity) bucket, in seconds (spec.md §4.4). Triage V1 has no
// threshold and never contributes to a violation count.
var violationThresholdSeconds = map[travel.Triage]map[bool]int64{
	travel.TriageAcute:  {true: 12 * 60, false: 25 * 60},
	travel.TriageUrgent: {true: 30 * 60, false: 40 * 60},
}

// Simulator drains Queue through the dispatch FSM using Strategy, one
// full run per genotype evaluation (spec.md §4.4, §9 "arena + index" — a
// Simulator owns one Context/Queue/Ambulances set and is never reused
// across evaluations).
type Simulator struct {
	Context  *dispatch.Context
	Strategy dispatch.Strategy
	Queue    *event.Queue

	Tables *tables.Tables

	// ReallocationHook is invoked for every Utility event instead of the
	// dispatch FSM (spec.md §3 "utility flag ... reallocation wake-ups
	// only", §4.5 "mid-day reallocation"). It receives the event's wall
	// clock so the caller (internal/genotype) can resolve the new time
	// segment and call Allocator.Reallocate on its roster. May be nil if
	// the run has no mid-day reallocation ticks.
	ReallocationHook func(now int64)

	// processed accumulates every non-utility event once it reaches its
	// terminal state, in the order NONE was reached (spec.md §4.4
	// "return the processed event list").
	processed []*event.Event
}

// New constructs a Simulator ready to Run. events must already be
// scheduled onto queue by the caller (typically the mcgen package).
func New(ctx *dispatch.Context, strat dispatch.Strategy, queue *event.Queue, tbl *tables.Tables) *Simulator {
	return &Simulator{Context: ctx, Strategy: strat, Queue: queue, Tables: tbl}
}

// Run drains the queue: while there is a live event, hand it to the
// dispatch strategy and let Handle re-sort it back onto the queue (or
// not, once it reaches NONE). Returns the processed event list, ordered
// by the time each event reached its terminal state (spec.md §4.4).
func (s *Simulator) Run() []*event.Event {
	logrus.Infof("simulator: starting drain, %d events pending", s.Queue.Len())
	for {
		ev := s.Queue.NextLive()
		if ev == nil {
			break
		}
		if ev.Utility {
			if s.ReallocationHook != nil {
				s.ReallocationHook(ev.Timer)
			}
			ev.Type = event.None
			continue
		}
		var before []int
		if ev.Type == event.AssigningAmbulance {
			for _, amb := range s.Context.Ambulances {
				before = append(before, amb.AssignedEventID)
			}
		}
		dispatch.Handle(s.Context, s.Strategy, ev, s.Queue)
		if ev.Type == event.None {
			s.processed = append(s.processed, ev)
		}
		for i, prevID := range before {
			// A preempted event reaches NONE inside Handle; its queue entry is skipped later.
			if prevID != s.Context.Ambulances[i].AssignedEventID {
				if prev, ok := s.Context.Events[prevID]; ok && prev.Type == event.None {
					s.processed = append(s.processed, prev)
				}
			}
		}
	}
	logrus.Infof("simulator: drain complete, %d events processed", len(s.processed))
	return s.processed
}

// bucketMatch reports whether ev belongs to the (triage, urban) bucket
// (spec.md §4.4). It applies no time-segment filter.
func bucketMatch(ev *event.Event, tbl *tables.Tables, triage travel.Triage, urban bool) bool {
	if ev.Triage != triage {
		return false
	}
	return tbl.IsUrban(ev.DepotIndexResponsible) == urban
}

// AverageResponseTime is the mean ResponseTime() over processed events
// matching triage and urban (spec.md §4.4), computed with
// gonum.org/v1/gonum/stat.Mean. Returns 0 if no event matches.
func AverageResponseTime(processed []*event.Event, tbl *tables.Tables, triage travel.Triage, urban bool) float64 {
	values := responseTimeValues(processed, tbl, triage, urban)
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// ResponseTimeVariance is the variance of ResponseTime() over processed
// events matching triage and urban, computed with
// gonum.org/v1/gonum/stat.Variance. Returns 0 if fewer than two events
// match (variance is undefined for n<2, and stat.Variance panics there).
func ResponseTimeVariance(processed []*event.Event, tbl *tables.Tables, triage travel.Triage, urban bool) float64 {
	values := responseTimeValues(processed, tbl, triage, urban)
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil)
}

func responseTimeValues(processed []*event.Event, tbl *tables.Tables, triage travel.Triage, urban bool) []float64 {
	var values []float64
	for _, ev := range processed {
		if !bucketMatch(ev, tbl, triage, urban) {
			continue
		}
		values = append(values, float64(ev.ResponseTime()))
	}
	return values
}

// ResponseTimeViolations is the fraction of processed events whose
// response time exceeds the threshold for their (triage, urbanity)
// bucket; events outside the thresholded buckets (i.e. triage V1) are
// excluded from both numerator and denominator (spec.md §4.4). When
// depotFilter is non-nil, only events with DepotIndexResponsible equal
// to *depotFilter are considered.
func ResponseTimeViolations(processed []*event.Event, tbl *tables.Tables, depotFilter *int) float64 {
	var violations, total int
	for _, ev := range processed {
		if depotFilter != nil && ev.DepotIndexResponsible != *depotFilter {
			continue
		}
		urban := tbl.IsUrban(ev.DepotIndexResponsible)
		thresholds, ok := violationThresholdSeconds[ev.Triage]
		if !ok {
			continue
		}
		total++
		if ev.ResponseTime() > thresholds[urban] {
			violations++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(violations) / float64(total)
}

// AllAmbulancesIdle is a convenience check used by tests to confirm a
// run drained cleanly (spec.md §8 property 9, "every ambulance ends
// idle").
func AllAmbulancesIdle(ambulances []*ambulance.Ambulance) bool {
	for _, a := range ambulances {
		if !a.Idle() {
			return false
		}
	}
	return true
}
