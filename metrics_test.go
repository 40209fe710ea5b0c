package memcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	b := &BasicMetricsCollector{}

	b.RecordAlloc(100, nil)
	b.RecordAlloc(300, nil)
	b.RecordAlloc(50, errors.New("oom"))
	b.RecordRealloc(100, 200, nil)
	b.RecordRealloc(200, 100, nil)
	b.RecordRealloc(100, 1<<30, errors.New("oom"))
	b.RecordFree(300)

	assert.Equal(t, BasicMetricsStats{
		AllocCount:     3,
		AllocErrors:    1,
		AllocBytes:     400,
		AllocAvgBytes:  200,
		ReallocCount:   3,
		ReallocErrors:  1,
		ReallocGrowths: 1,
		FreeCount:      1,
		FreeBytes:      300,
	}, b.GetStats())
}

func TestBasicMetricsEmpty(t *testing.T) {
	b := &BasicMetricsCollector{}
	assert.Zero(t, b.GetStats().AllocAvgBytes)
}

func TestMultiMetricsCollector(t *testing.T) {
	a, b := &BasicMetricsCollector{}, &BasicMetricsCollector{}
	m := MultiMetricsCollector(a, nil, NoopMetricsCollector{}, b)

	m.RecordAlloc(8, nil)
	m.RecordRealloc(8, 16, nil)
	m.RecordFree(16)

	for _, c := range []*BasicMetricsCollector{a, b} {
		s := c.GetStats()
		assert.Equal(t, int64(1), s.AllocCount)
		assert.Equal(t, int64(1), s.ReallocGrowths)
		assert.Equal(t, int64(16), s.FreeBytes)
	}
}
