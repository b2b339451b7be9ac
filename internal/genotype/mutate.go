package genotype

import "math/rand"

// MutateKind names one of the mutation operators (spec.md §4.6).
type MutateKind string

const (
	MutateRedistribute        MutateKind = "REDISTRIBUTE"
	MutateSwap                MutateKind = "SWAP"
	MutateScramble            MutateKind = "SCRAMBLE"
	MutateNeighborDuplication MutateKind = "NEIGHBOR_DUPLICATION"
)

var allMutateKinds = []MutateKind{MutateRedistribute, MutateSwap, MutateScramble, MutateNeighborDuplication}

// MutateWeights assigns a lottery weight to each MutateKind (MUTATION_*
// config, spec.md §6).
type MutateWeights map[MutateKind]float64

func (w MutateWeights) ordered() (keys []MutateKind, weights []float64) {
	for _, k := range allMutateKinds {
		keys = append(keys, k)
		weights = append(weights, w[k])
	}
	return keys, weights
}

// Mutate applies one weighted-lottery-chosen operator to m in place,
// with per-row-or-per-depot probability p (spec.md §4.6).
func Mutate(m Matrix, weights MutateWeights, p float64, rng *rand.Rand) {
	keys, ws := weights.ordered()
	kind := WeightedChoice(keys, ws, rng)
	switch kind {
	case MutateRedistribute:
		redistribute(m, p, rng)
	case MutateSwap:
		swapMutate(m, p, rng)
	case MutateScramble:
		scramble(m, p, rng)
	case MutateNeighborDuplication:
		neighborDuplication(m, p, rng)
	default:
		panic("genotype: unknown mutation kind")
	}
}

// redistribute: for each (segment, depot) with count > 0, with
// probability p, move one ambulance to a uniformly random different
// depot in that segment.
func redistribute(m Matrix, p float64, rng *rand.Rand) {
	for t := range m {
		d := len(m[t])
		if d < 2 {
			continue
		}
		for depot := 0; depot < d; depot++ {
			if m[t][depot] <= 0 || rng.Float64() >= p {
				continue
			}
			target := depot
			for target == depot {
				target = rng.Intn(d)
			}
			m[t][depot]--
			m[t][target]++
		}
	}
}

// swapMutate: for each (segment, depot), with probability p, swap
// counts with a uniformly random other depot in that segment.
func swapMutate(m Matrix, p float64, rng *rand.Rand) {
	for t := range m {
		d := len(m[t])
		if d < 2 {
			continue
		}
		for depot := 0; depot < d; depot++ {
			if rng.Float64() >= p {
				continue
			}
			other := depot
			for other == depot {
				other = rng.Intn(d)
			}
			m[t][depot], m[t][other] = m[t][other], m[t][depot]
		}
	}
}

// scramble: for each segment, with probability p, shuffle a
// uniformly-chosen contiguous sub-range of that segment's allocation.
func scramble(m Matrix, p float64, rng *rand.Rand) {
	for t := range m {
		d := len(m[t])
		if d < 2 || rng.Float64() >= p {
			continue
		}
		lo := rng.Intn(d)
		hi := lo + 1 + rng.Intn(d-lo)
		sub := m[t][lo:hi]
		rng.Shuffle(len(sub), func(i, j int) { sub[i], sub[j] = sub[j], sub[i] })
	}
}

// neighborDuplication: for each segment, with probability p, copy its
// row to the previous AND next segments (if in bounds), then skip the
// next segment in the scan to avoid runaway spreading.
func neighborDuplication(m Matrix, p float64, rng *rand.Rand) {
	for t := 0; t < len(m); t++ {
		if rng.Float64() >= p {
			continue
		}
		row := append([]int(nil), m[t]...)
		if t > 0 {
			copy(m[t-1], row)
		}
		if t+1 < len(m) {
			copy(m[t+1], row)
			t++ // skip the segment just overwritten
		}
	}
}
