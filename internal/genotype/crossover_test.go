package genotype

import (
	"math/rand"
	"testing"
)

func TestCrossoverProducesValidOffspring(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p1 := Matrix{{3, 0, 2}, {1, 1, 3}}
	p2 := Matrix{{0, 3, 2}, {2, 2, 1}}

	c1, c2 := Crossover(p1, p2, 5, rng)

	for _, child := range []Matrix{c1, c2} {
		if !child.Valid(5) {
			t.Fatalf("offspring %v not valid for k=5", child)
		}
	}
}

func TestCrossoverDoesNotMutateParents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p1 := Matrix{{3, 0, 2}}
	p2 := Matrix{{0, 3, 2}}
	p1Before := p1.Clone()
	p2Before := p2.Clone()

	Crossover(p1, p2, 5, rng)

	for t0 := range p1 {
		for d := range p1[t0] {
			if p1[t0][d] != p1Before[t0][d] || p2[t0][d] != p2Before[t0][d] {
				t.Fatalf("Crossover mutated a parent row in place")
			}
		}
	}
}

func TestCrossoverNarrowRowFallsBackToSwap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p1 := Matrix{{2, 1}}
	p2 := Matrix{{1, 2}}
	c1, c2 := Crossover(p1, p2, 3, rng)
	if !c1.Valid(3) || !c2.Valid(3) {
		t.Fatalf("2-column crossover offspring invalid")
	}
}
