package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns, as an int, a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Subset returns the indices of [0, n) selected independently with
// probability p, in increasing order.
func (r *RNG) Subset(n int, p float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, 0, int(float64(n)*p)+1)
	for i := range n {
		if r.rand.Float64() < p {
			out = append(out, i)
		}
	}
	return out
}

// Perm returns a pseudo-random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Mapping returns a pseudo-random function [0, n) -> [0, n) as a lookup
// table. Unlike Perm, images may collide.
func (r *RNG) Mapping(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(n)
	}
	return out
}
