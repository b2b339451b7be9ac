package population

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
)

// NSGA2Sort ranks a population by non-dominated fronts and crowding
// distance (spec.md §4.7 "Non-dominated sort", "Crowding distance").
type NSGA2Sort struct{}

func (NSGA2Sort) Rank(pop []*genotype.Individual) {
	fronts := nonDominatedSort(pop)
	for frontIdx, front := range fronts {
		assignCrowdingDistance(front)
		for _, ind := range front {
			ind.FrontNumber = frontIdx
		}
	}
}

// SelectSurvivors takes whole fronts in rank order until the next front
// would overflow target, then fills the remainder from that front by
// descending crowding distance (spec.md §4.7, the "combined-2N" NSGA-II
// survivor rule). Rank must already have been called on pop.
func (NSGA2Sort) SelectSurvivors(pop []*genotype.Individual, target int) []*genotype.Individual {
	maxFront := 0
	for _, ind := range pop {
		if ind.FrontNumber > maxFront {
			maxFront = ind.FrontNumber
		}
	}

	survivors := make([]*genotype.Individual, 0, target)
	for f := 0; f <= maxFront && len(survivors) < target; f++ {
		var front []*genotype.Individual
		for _, ind := range pop {
			if ind.FrontNumber == f {
				front = append(front, ind)
			}
		}
		if len(survivors)+len(front) <= target {
			survivors = append(survivors, front...)
			continue
		}
		sort.Slice(front, func(i, j int) bool { return front[i].CrowdingDistance > front[j].CrowdingDistance })
		survivors = append(survivors, front[:target-len(survivors)]...)
	}
	return survivors
}

// nonDominatedSort implements the standard NSGA-II peeling algorithm:
// individuals with domination-count 0 form front 0; peeling it
// decrements counts in the individuals each member dominates to expose
// front 1, and so on (spec.md §4.7).
func nonDominatedSort(pop []*genotype.Individual) [][]*genotype.Individual {
	n := len(pop)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			switch {
			case genotype.Dominates(pop[i].Objectives, pop[j].Objectives):
				dominatedBy[i] = append(dominatedBy[i], j)
			case genotype.Dominates(pop[j].Objectives, pop[i].Objectives):
				dominationCount[i]++
			}
		}
	}
	for i := range pop {
		pop[i].Dominated = dominatedBy[i]
		pop[i].DominationCount = dominationCount[i]
	}

	var current []int
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			current = append(current, i)
		}
	}

	var fronts [][]*genotype.Individual
	for len(current) > 0 {
		front := make([]*genotype.Individual, len(current))
		for idx, i := range current {
			front[idx] = pop[i]
		}
		fronts = append(fronts, front)

		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return fronts
}

// assignCrowdingDistance sets CrowdingDistance on every member of front:
// boundary individuals get +Inf; interior individuals accumulate
// (next_obj - prev_obj) / (max_obj - min_obj) per objective, summed
// across objectives; a zero-range objective contributes 0 (spec.md §4.7
// "Crowding distance").
func assignCrowdingDistance(front []*genotype.Individual) {
	n := len(front)
	for _, ind := range front {
		ind.CrowdingDistance = 0
	}
	if n == 0 {
		return
	}
	numObjectives := len(front[0].Objectives)
	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(i, j int) bool { return front[i].Objectives[m] < front[j].Objectives[m] })
		front[0].CrowdingDistance = math.Inf(1)
		front[n-1].CrowdingDistance = math.Inf(1)

		values := make([]float64, n)
		for i, ind := range front {
			values[i] = ind.Objectives[m]
		}
		rangeV := floats.Max(values) - floats.Min(values)
		if rangeV == 0 {
			continue
		}
		for i := 1; i < n-1; i++ {
			front[i].CrowdingDistance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / rangeV
		}
	}
}
