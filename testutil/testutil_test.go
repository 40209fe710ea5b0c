package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	rng := NewRNG(4711)

	sizes := rng.Sizes(1000, 1<<16)

	assert.Len(t, sizes, 1000)
	small := 0
	for _, s := range sizes {
		assert.GreaterOrEqual(t, s, 1)
		assert.LessOrEqual(t, s, 1<<16)
		if s <= 256 {
			small++
		}
	}
	// log-uniform: half of the exponent range lies below 256
	assert.Greater(t, small, 300)
}

func TestSizeDegenerate(t *testing.T) {
	rng := NewRNG(1)

	assert.Equal(t, 1, rng.Size(0))
	assert.Equal(t, 1, rng.Size(1))
}

func TestAlignment(t *testing.T) {
	rng := NewRNG(4711)

	seen := map[int]bool{}
	for range 500 {
		a := rng.Alignment(64)
		assert.True(t, a > 0 && a&(a-1) == 0, "alignment %d", a)
		assert.LessOrEqual(t, a, 64)
		seen[a] = true
	}
	assert.Len(t, seen, 7)
}

func TestReset(t *testing.T) {
	rng := NewRNG(99)

	first := rng.Sizes(10, 4096)
	rng.Reset()
	assert.Equal(t, first, rng.Sizes(10, 4096))
	assert.Equal(t, int64(99), rng.Seed())
}

func TestPattern(t *testing.T) {
	b := make([]byte, 1000)
	FillPattern(b, 7)
	assert.Equal(t, -1, FindMismatch(b, 7))
	assert.Equal(t, 0, FindMismatch(b, 8))

	b[513] ^= 0xff
	assert.Equal(t, 513, FindMismatch(b, 7))
}
