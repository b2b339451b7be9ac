// Package dispatch implements the per-state FSM transition logic and the
// two dispatch-strategy variants (RANDOM, CLOSEST) that choose which
// ambulance/hospital a transition uses (spec.md §4.2, §4.8).
package dispatch

import (
	"math/rand"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// Context bundles everything a Strategy or the shared FSM transition
// logic needs for one evaluation run. It is owned by the simulator and
// never shared across concurrent evaluations (spec.md §5).
type Context struct {
	Tables *tables.Tables
	Oracle *travel.Oracle
	Epoch  time.Time

	Ambulances []*ambulance.Ambulance
	Events     map[int]*event.Event

	// PrioritizeTriage enables mid-trip preemption of a lower-triage
	// dispatch (DISPATCH_STRATEGY_PRIORITIZE_TRIAGE).
	PrioritizeTriage bool
	// ResponseRestricted restricts which depots may serve a given
	// urbanity of incident (DISPATCH_STRATEGY_RESPONSE_RESTRICTED),
	// consulted only by CLOSEST.
	ResponseRestricted bool

	RNG *rand.Rand

	ambulanceIndex map[int]*ambulance.Ambulance
}

// NewContext builds a Context and its internal ambulance-by-id index.
func NewContext(tbl *tables.Tables, oracle *travel.Oracle, epoch time.Time, ambulances []*ambulance.Ambulance, events map[int]*event.Event, prioritizeTriage, responseRestricted bool, rng *rand.Rand) *Context {
	c := &Context{
		Tables:             tbl,
		Oracle:             oracle,
		Epoch:              epoch,
		Ambulances:         ambulances,
		Events:             events,
		PrioritizeTriage:   prioritizeTriage,
		ResponseRestricted: responseRestricted,
		RNG:                rng,
		ambulanceIndex:     make(map[int]*ambulance.Ambulance, len(ambulances)),
	}
	for _, a := range ambulances {
		c.ambulanceIndex[a.ID] = a
	}
	return c
}

func (c *Context) ambulanceByID(id int) *ambulance.Ambulance {
	return c.ambulanceIndex[id]
}
