package utils

import (
	"math/rand"
	"time"
)

// RandSource is the single stream of randomness behind one trial. Every
// stochastic decision (contact selection, infection and recovery draws)
// goes through an explicitly owned instance; there is no package-level
// default source.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed.
// A zero seed is replaced by the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// Bernoulli returns true with probability p. Values of p at or below 0
// never succeed; values at or above 1 always succeed.
func (r *RandSource) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

// Pair returns two distinct indices drawn uniformly from [0, n).
// n must be at least 2.
func (r *RandSource) Pair(n int) (int, int) {
	i := r.rng.Intn(n)
	j := r.rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// IntnExcept returns an index drawn uniformly from [0, n) excluding skip.
// n must be at least 2 and skip must be in [0, n).
func (r *RandSource) IntnExcept(n, skip int) int {
	j := r.rng.Intn(n - 1)
	if j >= skip {
		j++
	}
	return j
}
