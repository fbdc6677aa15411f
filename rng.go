package kelpie

import "math/rand"

// RNG is Kelpie's single seedable randomness source (spec §9 "Process-wide
// RNG... Factor out into a seedable abstraction so tests can pin
// behaviour"). The only two call sites that consume randomness are
// StartingReadPrep's abundance-weighted donor choice and the Extender's
// coin-toss fork resolution; both take an *RNG so tests can inject a
// fixed-seed instance and assert exact output.
type RNG struct {
	r *rand.Rand
}

// NewRNG returns an RNG seeded deterministically from seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random number in [0,n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// WeightedChoice picks an index into weights proportional to its value.
// All-zero weights fall back to a uniform choice.
func (g *RNG) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return g.Intn(len(weights))
	}
	x := g.r.Float64() * total
	for i, w := range weights {
		x -= w
		if x <= 0 {
			return i
		}
	}
	return len(weights) - 1
}
