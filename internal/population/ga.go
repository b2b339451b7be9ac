package population

import (
	"math/rand"
	"sort"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
)

// TournamentSelection picks the fitter (lower weighted-sum fitness, all
// objectives minimized) of Size uniformly-drawn competitors, twice
// (spec.md §4.7 "parent selection").
type TournamentSelection struct {
	Size int
}

func (t *TournamentSelection) SelectParents(pop []*genotype.Individual, rng *rand.Rand) (*genotype.Individual, *genotype.Individual) {
	return t.pick(pop, rng), t.pick(pop, rng)
}

func (t *TournamentSelection) pick(pop []*genotype.Individual, rng *rand.Rand) *genotype.Individual {
	size := t.Size
	if size < 1 {
		size = 1
	}
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < size; i++ {
		candidate := pop[rng.Intn(len(pop))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return best
}

// WeightedSumSort is the single-objective GA SortPolicy: Rank sorts the
// population by Fitness ascending (Fitness was already set by
// Individual.Evaluate), and SelectSurvivors truncates to the target-size
// fittest (spec.md §4.7 "survivor selection" for plain GA).
type WeightedSumSort struct{}

func (WeightedSumSort) Rank(pop []*genotype.Individual) {
	sort.Slice(pop, func(i, j int) bool { return pop[i].Fitness < pop[j].Fitness })
}

func (WeightedSumSort) SelectSurvivors(pop []*genotype.Individual, target int) []*genotype.Individual {
	if target > len(pop) {
		target = len(pop)
	}
	return pop[:target]
}
