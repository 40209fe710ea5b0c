//go:build linux

package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemAvailable(t *testing.T) {
	n, ok := memAvailable()
	if !ok {
		t.Skip("MemAvailable not reported")
	}
	assert.Positive(t, n)
	assert.Less(t, n, uint64(math.MaxUint64))
	assert.Equal(t, n%1024, uint64(0))
}
