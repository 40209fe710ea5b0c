// Package backend provides the platform allocators that sit beneath the
// allocation service.
//
// Every backend implements Heap: malloc, realloc and free over raw
// pointers, safe for concurrent use, returning blocks aligned to at least
// layout.MaxAlign. A zero-byte request yields a valid minimal block.
//
// # Backends
//
//   - System: modernc.org/memory, a malloc over mmap'd pages that lives
//     entirely outside the Go heap. The default.
//   - Runtime: Go heap memory pinned in a sharded registry until freed.
//     Portable to every target, including wasm.
//   - Pages: one anonymous mapping per block. Suited to large, long-lived
//     blocks that should go straight back to the OS on free.
//   - Tiered: routes requests to a small and a large backend by size.
//
// # Ownership
//
// A pointer must be freed or reallocated on the backend that produced it.
// Runtime and Pages detect foreign pointers and return ErrUnknownBlock;
// System does not.
package backend
