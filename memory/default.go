package memory

import (
	"os"
	"strconv"
	"unsafe"
)

// TrackingEnv enables tracking on the default allocator when set to a true
// value understood by strconv.ParseBool.
const TrackingEnv = "MEMCORE_TRACKING"

var defaultAllocator = New(WithTracking(trackingFromEnv()))

func trackingFromEnv() bool {
	v, ok := os.LookupEnv(TrackingEnv)
	if !ok {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// Default returns the process-wide allocator.
func Default() *Allocator { return defaultAllocator }

// Alloc calls Default().Alloc.
func Alloc(bytes int, padHeader bool) (unsafe.Pointer, error) {
	return defaultAllocator.Alloc(bytes, padHeader)
}

// Realloc calls Default().Realloc.
func Realloc(p unsafe.Pointer, bytes int, padHeader bool) (unsafe.Pointer, error) {
	return defaultAllocator.Realloc(p, bytes, padHeader)
}

// Free calls Default().Free.
func Free(p unsafe.Pointer, padHeader bool) {
	defaultAllocator.Free(p, padHeader)
}

// AllocAligned calls Default().AllocAligned.
func AllocAligned(bytes, alignment int) (unsafe.Pointer, error) {
	return defaultAllocator.AllocAligned(bytes, alignment)
}

// ReallocAligned calls Default().ReallocAligned.
func ReallocAligned(p unsafe.Pointer, bytes, prevBytes, alignment int) (unsafe.Pointer, error) {
	return defaultAllocator.ReallocAligned(p, bytes, prevBytes, alignment)
}

// FreeAligned calls Default().FreeAligned.
func FreeAligned(p unsafe.Pointer) {
	defaultAllocator.FreeAligned(p)
}

// CurrentUsage returns Default().CurrentUsage().
func CurrentUsage() uint64 { return defaultAllocator.CurrentUsage() }

// PeakUsage returns Default().PeakUsage().
func PeakUsage() uint64 { return defaultAllocator.PeakUsage() }

// AllocCount returns Default().AllocCount().
func AllocCount() uint64 { return defaultAllocator.AllocCount() }
