package memory

// MetricsCollector receives allocation events. Implementations must be safe
// for concurrent use and cheap: they run on every allocation.
//
// Byte counts are the sizes requested by the caller. RecordFree and the old
// size of RecordRealloc report 0 for blocks that carry no size header
// (untracked allocators without an array header).
type MetricsCollector interface {
	// RecordAlloc is called after each allocation attempt.
	RecordAlloc(bytes int, err error)

	// RecordRealloc is called after each reallocation attempt.
	RecordRealloc(oldBytes, newBytes int, err error)

	// RecordFree is called after each free.
	RecordFree(bytes int)
}

type noopMetrics struct{}

func (noopMetrics) RecordAlloc(int, error)        {}
func (noopMetrics) RecordRealloc(int, int, error) {}
func (noopMetrics) RecordFree(int)                {}
