package genotype

import (
	"math/rand"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/allocator"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/dispatch"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simulator"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// Individual owns one genotype and, once Evaluate has run, the
// post-evaluation simulated state needed for metrics and artifacts
// (spec.md §3 "Individual").
type Individual struct {
	Genotype Matrix

	Events     []*event.Event
	Ambulances []*ambulance.Ambulance

	RawObjectives map[ObjectiveKey]float64
	Objectives    []float64 // NSGA-II inverted vector, order == EvalConfig.ActiveObjectives
	Fitness       float64   // GA weighted-sum mode

	FrontNumber      int
	CrowdingDistance float64
	Dominated        []int // indices, within the owning population, this individual dominates
	DominationCount  int
}

// EvalConfig bundles everything Evaluate needs beyond the genotype
// itself: the shared read-only tables/oracle, the active dispatch
// strategy, allocator policy, and which objectives to compute (spec.md
// §4.6 "Evaluate", §5 "shared resources are read-only").
type EvalConfig struct {
	Tables          *tables.Tables
	ActiveDepotIdx  []int
	Oracle          *travel.Oracle
	Epoch           time.Time
	Strategy        dispatch.Strategy
	PrioritizeTriage, ResponseRestricted bool

	ScheduleBreaks          bool
	ShiftStart, ShiftLength int64
	NumSegments             int

	FleetSize int // K, the fixed row sum

	ActiveObjectives []ObjectiveKey          // NSGA-II mode; nil in GA mode
	ObjectiveWeights map[ObjectiveKey]float64 // GA weighted-sum mode
}

// New builds an empty Individual with genotype m.
func New(m Matrix) *Individual {
	return &Individual{Genotype: m}
}

// Evaluate constructs a cloned event list, a fresh allocator/simulator
// pair, runs the simulation, and records the resulting objectives,
// fitness, and post-run state onto the Individual (spec.md §4.6
// "Evaluate"). eventTemplate is the shared, never-mutated base scenario
// (spec.md §5 "each evaluation gets ... its own cloned event list").
func (ind *Individual) Evaluate(eventTemplate []*event.Event, cfg EvalConfig, rng *rand.Rand) {
	if !ind.Genotype.Valid(cfg.FleetSize) {
		panic("genotype: INVALID_GENOTYPE: a row does not sum to the fleet size")
	}
	cloned := cloneEvents(eventTemplate)

	alloc := allocator.New(cfg.Tables, cfg.ScheduleBreaks, cfg.ShiftStart, cfg.ShiftLength)
	roster := alloc.BuildRoster(ind.Genotype[0], cfg.ActiveDepotIdx, rng)

	eventIndex := make(map[int]*event.Event, len(cloned))
	queue := event.NewQueue()
	for _, ev := range cloned {
		eventIndex[ev.ID] = ev
		queue.Schedule(ev)
	}

	ctx := dispatch.NewContext(cfg.Tables, cfg.Oracle, cfg.Epoch, roster, eventIndex, cfg.PrioritizeTriage, cfg.ResponseRestricted, rng)
	sim := simulator.New(ctx, cfg.Strategy, queue, cfg.Tables)
	sim.ReallocationHook = func(now int64) {
		t := SegmentIndex(now, cfg.ShiftStart, cfg.ShiftLength, cfg.NumSegments)
		alloc.Reallocate(roster, cfg.ActiveDepotIdx, ind.Genotype[t])
	}

	processed := sim.Run()
	// callReceived ascending matches scheduling order already, but
	// Evaluate's contract (spec.md §4.6) calls it out explicitly since a
	// different dispatch order could, in principle, interleave arrivals.
	sortByCallReceived(processed)

	ind.Events = processed
	ind.Ambulances = roster
	ind.RawObjectives = ComputeObjectives(processed, cfg.Tables)

	if cfg.ActiveObjectives != nil {
		ind.Objectives = NSGA2Vector(ind.RawObjectives, cfg.ActiveObjectives)
	}
	if cfg.ObjectiveWeights != nil {
		ind.Fitness = WeightedFitness(ind.RawObjectives, cfg.ObjectiveWeights)
	}
}

func cloneEvents(src []*event.Event) []*event.Event {
	out := make([]*event.Event, len(src))
	for i, ev := range src {
		cp := *ev
		out[i] = &cp
	}
	return out
}

func sortByCallReceived(events []*event.Event) {
	// Insertion sort: event lists per evaluation are small relative to
	// the cost of a full simulation run, and the input is already nearly
	// sorted (terminal order tracks arrival order closely).
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].CallReceived < events[j-1].CallReceived; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
