package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG wraps a seeded random source. It is thread-safe.
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

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Size returns a request size in [1, maxBytes]. Sizes follow a log-uniform
// distribution, so small requests dominate the way they do in real programs.
func (r *RNG) Size(maxBytes int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sizeLocked(maxBytes)
}

func (r *RNG) sizeLocked(maxBytes int) int {
	if maxBytes <= 1 {
		return 1
	}
	exp := r.rand.Float64() * math.Log2(float64(maxBytes))
	n := int(math.Exp2(exp))
	return min(max(n, 1), maxBytes)
}

// Sizes returns n request sizes drawn like Size.
// Locks only once per call.
func (r *RNG) Sizes(n, maxBytes int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = r.sizeLocked(maxBytes)
	}
	return sizes
}

// Alignment returns a power of two in [1, maxAlign]. maxAlign must be a
// power of two.
func (r *RNG) Alignment(maxAlign int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift := 0
	for 1<<(shift+1) <= maxAlign {
		shift++
	}
	return 1 << r.rand.Intn(shift+1)
}

// FillPattern writes a position-dependent pattern derived from seed.
func FillPattern(b []byte, seed byte) {
	for i := range b {
		b[i] = pattern(i, seed)
	}
}

// FindMismatch returns the index of the first byte that differs from the
// pattern written by FillPattern with the same seed, or -1.
func FindMismatch(b []byte, seed byte) int {
	for i := range b {
		if b[i] != pattern(i, seed) {
			return i
		}
	}
	return -1
}

func pattern(i int, seed byte) byte {
	return seed ^ byte(i) ^ byte(i>>8)*31
}
