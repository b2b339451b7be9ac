package genotype

import "math/rand"

// WeightedChoice picks one of keys with probability proportional to the
// matching entry in weights, matching the teacher's factory-by-name
// convention but resolved by a lottery instead of a fixed name (spec.md
// §4.6 "weighted-lottery selection over initializers" / "over mutation
// kinds"). keys/weights are parallel slices rather than a map so the
// accumulation order — and therefore the RNG draw it consumes — is
// deterministic given a fixed rng stream (spec.md §5). Panics if keys is
// empty, the slices differ in length, or no weight is positive.
func WeightedChoice[T any](keys []T, weights []float64, rng *rand.Rand) T {
	if len(keys) == 0 || len(keys) != len(weights) {
		panic("genotype: weighted lottery given mismatched keys/weights")
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		panic("genotype: weighted lottery has no positive weight")
	}
	pick := rng.Float64() * total
	var acc float64
	lastPositive := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		lastPositive = i
		acc += w
		if pick < acc {
			return keys[i]
		}
	}
	// Floating point rounding may leave pick just past the last boundary.
	return keys[lastPositive]
}
