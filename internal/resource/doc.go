// Package resource implements the memory budget that backs an allocator's
// optional hard limit.
//
// # Memory Budget
//
// A Controller tracks reserved bytes with an atomic counter and, when a
// limit is configured, enforces it with a weighted semaphore. Reservation is
// non-blocking and fail-fast: the allocator never waits for memory, it
// reports out-of-memory and lets its caller decide.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limiting without nil checks everywhere.
package resource
