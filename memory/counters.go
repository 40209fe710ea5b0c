package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// counters are process-lifetime diagnostics. They are never reset and each
// one is individually consistent; there is no snapshot across them.
type counters struct {
	current atomic.Uint64
	peak    atomic.Uint64
	count   atomic.Uint64
}

func (c *counters) addBytes(n uint64) {
	cur := c.current.Add(n)
	for {
		peak := c.peak.Load()
		if cur <= peak || c.peak.CompareAndSwap(peak, cur) {
			return
		}
	}
}

func (c *counters) subBytes(n uint64) {
	saturatingSub(&c.current, n)
}

// saturatingSub subtracts n from v, stopping at zero so that a mismatched
// free can never wrap a counter.
func saturatingSub(v *atomic.Uint64, n uint64) {
	for {
		cur := v.Load()
		next := uint64(0)
		if n < cur {
			next = cur - n
		}
		if v.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Stats is a snapshot of an Allocator's counters.
type Stats struct {
	Tracking     bool   // Current/Peak are maintained
	CurrentBytes uint64 // Current: live requested bytes
	PeakBytes    uint64 // Historical: highest CurrentBytes
	AllocCount   uint64 // Current: live blocks
	LimitBytes   int64  // Configured budget, 0 if none
	LimitUsed    int64  // Current: bytes held against the budget
	LimitPeak    int64  // Historical: highest LimitUsed
	Denied       int64  // Historical: requests rejected by the budget
}

func (s Stats) String() string {
	if !s.Tracking {
		return fmt.Sprintf("Memory{blocks: %d, tracking: off}", s.AllocCount)
	}
	limit := "none"
	if s.LimitBytes > 0 {
		limit = humanize.IBytes(uint64(s.LimitBytes))
	}
	return fmt.Sprintf(
		"Memory{blocks: %d, current: %s, peak: %s, limit: %s, denied: %d}",
		s.AllocCount,
		humanize.IBytes(s.CurrentBytes),
		humanize.IBytes(s.PeakBytes),
		limit,
		s.Denied,
	)
}
