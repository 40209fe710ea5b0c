package memcore

import (
	"sync/atomic"

	"github.com/hupe1980/memcore/memory"
)

// MetricsCollector receives allocation events.
// Implement this interface to integrate with monitoring systems, or use
// metrics.NewCollector for Prometheus.
type MetricsCollector = memory.MetricsCollector

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, error)        {}
func (NoopMetricsCollector) RecordRealloc(int, int, error) {}
func (NoopMetricsCollector) RecordFree(int)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount     atomic.Int64
	AllocErrors    atomic.Int64
	AllocBytes     atomic.Int64
	ReallocCount   atomic.Int64
	ReallocErrors  atomic.Int64
	ReallocGrowths atomic.Int64
	FreeCount      atomic.Int64
	FreeBytes      atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes int, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(int64(bytes))
}

// RecordRealloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRealloc(oldBytes, newBytes int, err error) {
	b.ReallocCount.Add(1)
	if err != nil {
		b.ReallocErrors.Add(1)
		return
	}
	if newBytes > oldBytes {
		b.ReallocGrowths.Add(1)
	}
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(bytes int) {
	b.FreeCount.Add(1)
	b.FreeBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:     b.AllocCount.Load(),
		AllocErrors:    b.AllocErrors.Load(),
		AllocBytes:     b.AllocBytes.Load(),
		AllocAvgBytes:  b.getAvgAllocBytes(),
		ReallocCount:   b.ReallocCount.Load(),
		ReallocErrors:  b.ReallocErrors.Load(),
		ReallocGrowths: b.ReallocGrowths.Load(),
		FreeCount:      b.FreeCount.Load(),
		FreeBytes:      b.FreeBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAllocBytes() int64 {
	count := b.AllocCount.Load() - b.AllocErrors.Load()
	if count <= 0 {
		return 0
	}
	return b.AllocBytes.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount     int64
	AllocErrors    int64
	AllocBytes     int64
	AllocAvgBytes  int64
	ReallocCount   int64
	ReallocErrors  int64
	ReallocGrowths int64
	FreeCount      int64
	FreeBytes      int64
}

// multiCollector fans events out to several collectors.
type multiCollector []MetricsCollector

// MultiMetricsCollector returns a MetricsCollector that forwards every event
// to each of cs in order. Nil entries are skipped.
func MultiMetricsCollector(cs ...MetricsCollector) MetricsCollector {
	var m multiCollector
	for _, c := range cs {
		if c != nil {
			m = append(m, c)
		}
	}
	return m
}

func (m multiCollector) RecordAlloc(bytes int, err error) {
	for _, c := range m {
		c.RecordAlloc(bytes, err)
	}
}

func (m multiCollector) RecordRealloc(oldBytes, newBytes int, err error) {
	for _, c := range m {
		c.RecordRealloc(oldBytes, newBytes, err)
	}
}

func (m multiCollector) RecordFree(bytes int) {
	for _, c := range m {
		c.RecordFree(bytes)
	}
}
