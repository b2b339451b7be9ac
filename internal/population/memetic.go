package population

import (
	"math/rand"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simulator"
)

// LocalSearchHook is the memetic OffspringHook (spec.md §4.7 "Memetic
// variants"): with probability Probability, it picks a random time
// segment, finds the active depot with the worst response-time
// violation rate within that segment, and hill-climbs by moving one
// ambulance at a time from some other depot in that segment into the
// worst one, accepting the first re-evaluation that strictly improves
// over the child (first-improvement local search).
type LocalSearchHook struct {
	Probability float64
}

func (h *LocalSearchHook) Apply(child *genotype.Individual, core *EvolutionaryCore, rng *rand.Rand) {
	if core.NumSegments == 0 || rng.Float64() >= h.Probability {
		return
	}

	t := rng.Intn(core.NumSegments)
	worstCol := worstViolationColumn(child, core, t)
	if worstCol < 0 {
		return
	}

	row := child.Genotype[t]
	for d := range row {
		if d == worstCol || row[d] < 1 {
			continue
		}

		candidateGenotype := child.Genotype.Clone()
		candidateGenotype[t][d]--
		candidateGenotype[t][worstCol]++

		trial := genotype.New(candidateGenotype)
		trial.Evaluate(core.EventTemplate, core.EvalConfig, rng)

		if improvesOn(trial, child, core) {
			child.Genotype = candidateGenotype
			child.Events = trial.Events
			child.Ambulances = trial.Ambulances
			child.RawObjectives = trial.RawObjectives
			child.Objectives = trial.Objectives
			child.Fitness = trial.Fitness
			return
		}
	}
}

// worstViolationColumn returns the genotype column (active-depot index)
// with the highest response-time violation rate among events that fall
// within segment t of ind's already-evaluated run, or -1 if ind has no
// recorded events for that segment.
func worstViolationColumn(ind *genotype.Individual, core *EvolutionaryCore, t int) int {
	var segEvents []*event.Event
	for _, ev := range ind.Events {
		if genotype.SegmentIndex(ev.CallReceived, core.EvalConfig.ShiftStart, core.EvalConfig.ShiftLength, core.NumSegments) == t {
			segEvents = append(segEvents, ev)
		}
	}
	if len(segEvents) == 0 {
		return -1
	}

	worstCol := -1
	worstRate := -1.0
	for col, depotIdx := range core.EvalConfig.ActiveDepotIdx {
		d := depotIdx
		rate := simulator.ResponseTimeViolations(segEvents, core.Tables, &d)
		if rate > worstRate {
			worstRate = rate
			worstCol = col
		}
	}
	return worstCol
}

// improvesOn reports whether trial is a strict improvement over child,
// under whichever ranking mode core is configured for: NSGA-II
// domination when ActiveObjectives is set, weighted-sum fitness
// otherwise (spec.md §4.6, §4.7).
func improvesOn(trial, child *genotype.Individual, core *EvolutionaryCore) bool {
	if core.EvalConfig.ActiveObjectives != nil {
		return genotype.Dominates(trial.Objectives, child.Objectives)
	}
	return trial.Fitness < child.Fitness
}
