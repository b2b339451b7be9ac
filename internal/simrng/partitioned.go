// Package simrng provides deterministic, per-subsystem RNG streams so
// that a fixed master seed reproduces bit-identical runs regardless of
// whether individuals are evaluated sequentially or across a worker
// pool (spec.md §5 "the RNG contract must be stable ... whether run
// sequentially or in parallel").
package simrng

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Key identifies a reproducible run by its master seed.
type Key int64

// Partitioned hands out one *rand.Rand per named subsystem, each
// derived from the master seed so that two runs with the same Key and
// configuration produce identical subsystem streams (spec.md §5).
//
// Derivation: masterSeed XOR fnv1a64(subsystemName). Not thread-safe;
// callers that evaluate individuals in parallel must construct one
// Partitioned per evaluation (see ForIndividual), never share one
// across goroutines.
type Partitioned struct {
	key        Key
	subsystems map[string]*rand.Rand
}

// New creates a Partitioned from a master seed.
func New(key Key) *Partitioned {
	return &Partitioned{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the (cached) RNG for the named subsystem.
func (p *Partitioned) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// ForIndividual derives the per-evaluation master seed for (generation,
// individualIndex), so that a parallel evaluator can construct an
// independent Partitioned per individual while remaining reproducible
// (spec.md §5).
func ForIndividual(masterKey Key, generation, individualIndex int) Key {
	name := fmt.Sprintf("gen%d_ind%d", generation, individualIndex)
	return Key(int64(masterKey) ^ fnv1a64(name))
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
