package evo

import "math/rand"

// Source is the only randomness the engine draws from. Inject a seeded
// source for reproducible runs.
type Source interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
	// IntBetween returns a uniform int in [lo, hi], both ends inclusive.
	IntBetween(lo, hi int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

type randSource struct {
	rng *rand.Rand
}

// NewSource returns a Source backed by math/rand seeded with seed.
func NewSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

// SourceFrom adapts an existing *rand.Rand.
func SourceFrom(rng *rand.Rand) Source {
	return &randSource{rng: rng}
}

func (s *randSource) IntN(n int) int {
	return s.rng.Intn(n)
}

func (s *randSource) IntBetween(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *randSource) Float64() float64 {
	return s.rng.Float64()
}
