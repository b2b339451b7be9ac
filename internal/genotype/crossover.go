package genotype

import "math/rand"

// Crossover performs segmented two-point crossover (spec.md §4.6): for
// each segment, a random midpoint m in [1, D-2] splits the row; offspring1
// takes parent2 up to m and parent1 after, offspring2 the mirror image.
// Both offspring are repaired to the fleet size k before being returned.
func Crossover(parent1, parent2 Matrix, k int, rng *rand.Rand) (Matrix, Matrix) {
	t := len(parent1)
	child1 := make(Matrix, t)
	child2 := make(Matrix, t)
	for segment := 0; segment < t; segment++ {
		d := len(parent1[segment])
		row1 := make([]int, d)
		row2 := make([]int, d)
		if d < 3 {
			copy(row1, parent2[segment])
			copy(row2, parent1[segment])
		} else {
			mid := 1 + rng.Intn(d-2) // m in [1, D-2]
			copy(row1[:mid], parent2[segment][:mid])
			copy(row1[mid:], parent1[segment][mid:])
			copy(row2[:mid], parent1[segment][:mid])
			copy(row2[mid:], parent2[segment][mid:])
		}
		child1[segment] = row1
		child2[segment] = row2
	}
	Repair(child1, k, rng)
	Repair(child2, k, rng)
	return child1, child2
}
