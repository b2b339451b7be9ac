package genotype

import "math/rand"

// Repair restores the genotype validity invariant in place: per
// segment, while the row sum differs from k, uniformly pick a depot and
// increment it (if short) or decrement it, only if > 0, (if over).
// Terminates in O(|k - rowSum|) expected steps (spec.md §4.6).
func Repair(m Matrix, k int, rng *rand.Rand) {
	for t := range m {
		d := len(m[t])
		if d == 0 {
			continue
		}
		for m.RowSum(t) != k {
			depot := rng.Intn(d)
			if m.RowSum(t) < k {
				m[t][depot]++
				continue
			}
			if m[t][depot] > 0 {
				m[t][depot]--
			}
		}
	}
}
