// Package population implements the generational evolve loop shared by
// all four heuristics (GA, NSGA-II, MA, MemeticNSGA-II), composed from
// pluggable SelectionPolicy/SortPolicy/OffspringHook strategies instead
// of a class-per-heuristic inheritance tree (spec.md §4.7, §9 "redesign
// flag: replace the inheritance tree with composition").
package population

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/artifact"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simrng"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

// SelectionPolicy picks two parents from the current population for
// reproduction.
type SelectionPolicy interface {
	SelectParents(pop []*genotype.Individual, rng *rand.Rand) (*genotype.Individual, *genotype.Individual)
}

// SortPolicy ranks a population (assigning whatever bookkeeping fields
// it needs — Fitness for GA, FrontNumber/CrowdingDistance for NSGA-II)
// and picks survivors down to target size.
type SortPolicy interface {
	Rank(pop []*genotype.Individual)
	SelectSurvivors(pop []*genotype.Individual, target int) []*genotype.Individual
}

// OffspringHook runs after a child is produced and evaluated, before it
// joins the combined pool for survivor selection. The memetic variants
// use this for the local-search step (spec.md §4.7 "Memetic variants").
type OffspringHook interface {
	Apply(child *genotype.Individual, core *EvolutionaryCore, rng *rand.Rand)
}

// EvolutionaryCore drives initialization, evaluation, selection,
// reproduction, and survivor selection for one run (spec.md §4.7).
type EvolutionaryCore struct {
	Selection SelectionPolicy
	Sort      SortPolicy
	Offspring OffspringHook // nil for non-memetic heuristics

	EvalConfig    genotype.EvalConfig
	EventTemplate []*event.Event
	Tables        *tables.Tables
	Depots        []tables.Depot

	PopulationSize int
	NumSegments    int
	FleetSize      int

	CrossoverProbability float64
	MutationProbability  float64
	MutationRowProb       float64 // per-row/per-depot probability inside a chosen mutation operator

	InitWeights   genotype.InitWeights
	MutateWeights genotype.MutateWeights

	MasterSeed simrng.Key

	// WallClockBudget and MaxGenerations together define termination
	// (spec.md §4.7 "wall-clock budget ... OR max-generation count").
	WallClockBudget time.Duration
	MaxGenerations  int

	// History accumulates one GenerationMetrics row per generation,
	// consumed by the CLI to write heuristic.json (spec.md §6
	// "heuristic.json ... per-generation vectors").
	History []artifact.GenerationMetrics
}

// evalRNG derives the deterministic, evaluation-scoped RNG for
// individual i of generation gen (spec.md §5).
func (c *EvolutionaryCore) evalRNG(gen, i int) *rand.Rand {
	seed := simrng.ForIndividual(c.MasterSeed, gen, i)
	return rand.New(rand.NewSource(int64(seed)))
}

// Initialize builds PopulationSize fresh Individuals via the weighted
// genotype-initializer lottery (spec.md §4.6 "Initialization").
func (c *EvolutionaryCore) Initialize() []*genotype.Individual {
	pop := make([]*genotype.Individual, c.PopulationSize)
	for i := range pop {
		rng := c.evalRNG(-1, i) // generation -1: reserved for initialization, never reused by Evolve
		m := genotype.Initialize(c.NumSegments, c.FleetSize, c.Depots, c.InitWeights, rng)
		pop[i] = genotype.New(m)
	}
	return pop
}

// evaluateAll evaluates every individual in pop under generation gen,
// each with its own deterministically-derived RNG (spec.md §5 — this is
// also the loop implementers MAY parallelize across a worker pool,
// since each iteration only touches its own Individual and RNG).
func (c *EvolutionaryCore) evaluateAll(pop []*genotype.Individual, gen int) {
	for i, ind := range pop {
		ind.Evaluate(c.EventTemplate, c.EvalConfig, c.evalRNG(gen, i))
	}
}

// reproduce fills offspring up to PopulationSize via selection,
// crossover, and mutation (spec.md §4.6 "Crossover", "Mutation").
func (c *EvolutionaryCore) reproduce(pop []*genotype.Individual, rng *rand.Rand) []*genotype.Individual {
	offspring := make([]*genotype.Individual, 0, c.PopulationSize)
	for len(offspring) < c.PopulationSize {
		p1, p2 := c.Selection.SelectParents(pop, rng)

		var m1, m2 genotype.Matrix
		if rng.Float64() < c.CrossoverProbability {
			m1, m2 = genotype.Crossover(p1.Genotype, p2.Genotype, c.FleetSize, rng)
		} else {
			m1, m2 = p1.Genotype.Clone(), p2.Genotype.Clone()
		}
		for _, m := range [2]genotype.Matrix{m1, m2} {
			if rng.Float64() < c.MutationProbability {
				genotype.Mutate(m, c.MutateWeights, c.MutationRowProb, rng)
			}
		}

		offspring = append(offspring, genotype.New(m1), genotype.New(m2))
	}
	return offspring[:c.PopulationSize]
}

// Evolve runs the generational loop until the wall-clock budget or max
// generation count is exhausted (spec.md §4.7 "Termination"), returning
// the final ranked population.
func (c *EvolutionaryCore) Evolve() []*genotype.Individual {
	deadline := time.Now().Add(c.WallClockBudget)

	pop := c.Initialize()
	c.evaluateAll(pop, 0)
	c.Sort.Rank(pop)
	c.History = append(c.History, artifact.SummarizeGeneration(0, pop))

	rng := rand.New(rand.NewSource(int64(c.MasterSeed)))
	for gen := 1; gen <= c.MaxGenerations; gen++ {
		if c.WallClockBudget > 0 && time.Now().After(deadline) {
			logrus.Infof("population: wall-clock budget exhausted at generation %d", gen)
			break
		}

		offspring := c.reproduce(pop, rng)
		c.evaluateAll(offspring, gen)
		if c.Offspring != nil {
			for _, child := range offspring {
				c.Offspring.Apply(child, c, c.evalRNG(gen, -1))
			}
		}

		combined := make([]*genotype.Individual, 0, len(pop)+len(offspring))
		combined = append(combined, pop...)
		combined = append(combined, offspring...)
		c.Sort.Rank(combined)
		pop = c.Sort.SelectSurvivors(combined, c.PopulationSize)
		gm := artifact.SummarizeGeneration(gen, pop)
		c.History = append(c.History, gm)

		logrus.Infof("gen %d: population size %d, diversity %.3f, objective averages %v", gen, len(pop), gm.Diversity, gm.ObjectiveAverages)
	}
	return pop
}
