package genotype

import (
	"math/rand"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

// InitKind names one of the genotype initializers (spec.md §4.6).
type InitKind string

const (
	InitRandom                         InitKind = "RANDOM"
	InitUniform                        InitKind = "UNIFORM"
	InitPopulationProportionate2km     InitKind = "POPULATION_PROPORTIONATE_2KM"
	InitPopulationProportionate5km     InitKind = "POPULATION_PROPORTIONATE_5KM"
	InitPopulationProportionateCluster InitKind = "POPULATION_PROPORTIONATE_CLUSTER"
	InitIncidentProportionate2km       InitKind = "INCIDENT_PROPORTIONATE_2KM"
	InitIncidentProportionate5km       InitKind = "INCIDENT_PROPORTIONATE_5KM"
	InitIncidentProportionateCluster   InitKind = "INCIDENT_PROPORTIONATE_CLUSTER"
)

// allInitKinds is the fixed, ordered key set consulted by the weighted
// lottery; order only matters for RNG-draw determinism, not semantics.
var allInitKinds = []InitKind{
	InitRandom, InitUniform,
	InitPopulationProportionate2km, InitPopulationProportionate5km, InitPopulationProportionateCluster,
	InitIncidentProportionate2km, InitIncidentProportionate5km, InitIncidentProportionateCluster,
}

// InitWeights assigns a lottery weight to each InitKind (GENOTYPE_INIT_*
// config, spec.md §6).
type InitWeights map[InitKind]float64

func (w InitWeights) ordered() (keys []InitKind, weights []float64) {
	for _, k := range allInitKinds {
		keys = append(keys, k)
		weights = append(weights, w[k])
	}
	return keys, weights
}

// demographicWeight resolves the depot's weight column for a
// proportionate InitKind (SPEC_FULL §4, "Depot demographic-weighted
// genotype initializers").
func demographicWeight(d tables.Depot, kind InitKind) float64 {
	switch kind {
	case InitPopulationProportionate2km:
		return d.Population2km
	case InitPopulationProportionate5km:
		return d.Population5km
	case InitPopulationProportionateCluster:
		return d.PopulationCluster
	case InitIncidentProportionate2km:
		return d.Incidents2km
	case InitIncidentProportionate5km:
		return d.Incidents5km
	case InitIncidentProportionateCluster:
		return d.IncidentsCluster
	default:
		return 0
	}
}

func isProportionate(kind InitKind) bool {
	switch kind {
	case InitPopulationProportionate2km, InitPopulationProportionate5km, InitPopulationProportionateCluster,
		InitIncidentProportionate2km, InitIncidentProportionate5km, InitIncidentProportionateCluster:
		return true
	}
	return false
}

// Initialize builds a parent Individual's genotype: T segments, one row
// each, every row independently initialized by a weighted lottery over
// kinds (spec.md §4.6). depots is indexed by the active depot indices
// (i.e. len(depots) == D, already filtered to the active set).
func Initialize(t, k int, depots []tables.Depot, weights InitWeights, rng *rand.Rand) Matrix {
	d := len(depots)
	keys, ws := weights.ordered()
	m := NewMatrix(t, d)
	for segment := 0; segment < t; segment++ {
		kind := WeightedChoice(keys, ws, rng)
		m[segment] = initRow(kind, d, k, depots, rng)
	}
	return m
}

func initRow(kind InitKind, d, k int, depots []tables.Depot, rng *rand.Rand) []int {
	row := make([]int, d)
	switch {
	case kind == InitRandom:
		for i := 0; i < k; i++ {
			row[rng.Intn(d)]++
		}
	case kind == InitUniform:
		base := k / d
		remainder := k % d
		for i := range row {
			row[i] = base
		}
		perm := rng.Perm(d)
		for i := 0; i < remainder; i++ {
			row[perm[i]]++
		}
	case isProportionate(kind):
		for i := range row {
			row[i] = 1
		}
		remaining := k - d
		if remaining < 0 {
			// Fewer ambulances than depots: fall back to RANDOM placement
			// of the whole fleet rather than producing negative counts.
			for i := range row {
				row[i] = 0
			}
			for i := 0; i < k; i++ {
				row[rng.Intn(d)]++
			}
			return row
		}
		depotWeights := make([]float64, d)
		var anyPositive bool
		for i, dep := range depots {
			depotWeights[i] = demographicWeight(dep, kind)
			if depotWeights[i] > 0 {
				anyPositive = true
			}
		}
		if !anyPositive {
			// No demographic data available for this column; degrade to
			// an even split across depots rather than panicking.
			for i := range depotWeights {
				depotWeights[i] = 1
			}
		}
		indices := make([]int, d)
		for i := range indices {
			indices[i] = i
		}
		for i := 0; i < remaining; i++ {
			pick := WeightedChoice(indices, depotWeights, rng)
			row[pick]++
		}
	default:
		panic("genotype: unknown init kind")
	}
	return row
}
