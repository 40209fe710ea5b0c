// Package memory is an allocation service over raw, non-GC memory.
//
// An Allocator hands out blocks from a pluggable Backend and keeps three
// counters: live blocks, live requested bytes and the peak of the latter.
// Byte accounting is opt-in (WithTracking or WithMemoryLimit) because it
// forces a DataOffset-byte header in front of every block.
//
// # Blocks
//
// Plain blocks come from Alloc, Realloc and Free. When padHeader is set the
// block is laid out as
//
//	[ requested bytes | element count | payload ... ]
//	  SizeOffset        ElementOffset   DataOffset
//
// and the payload pointer is returned. ElementCount reaches the second slot
// from the payload pointer alone, which is how typed arrays recover their
// length.
//
// Aligned blocks come from AllocAligned, ReallocAligned and FreeAligned.
// The distance back to the underlying block is stored in the four bytes in
// front of the returned pointer.
//
// # Typed arrays
//
// NewArray, ResizeArray and FreeArray manage Go slices backed by allocator
// memory. Element types must not contain Go pointers: the garbage collector
// does not scan allocator memory.
//
//	xs, err := memory.NewArray[float64](alloc, 3)
//	if err != nil {
//		return err
//	}
//	defer memory.FreeArray(alloc, xs)
//	_ = memory.ArrayLen(xs) // 3
//
// NewObject and DeleteObject do the same for a single value, and
// TypedAllocator binds them to one type.
//
// The package-level functions use a process-wide allocator whose tracking
// is controlled by the MEMCORE_TRACKING environment variable.
package memory
