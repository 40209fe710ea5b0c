// Package mmap provides anonymous page mappings for off-heap memory.
//
// # Overview
//
// MapAnon asks the operating system for a private, zero-filled, read-write
// region whose size is rounded up to a whole number of pages. The region
// lives outside the Go heap: the garbage collector never scans or moves it,
// and it is returned to the OS only by Close.
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()          // len(buf) == m.Size()
//	_ = m.Advise(mmap.AccessDontNeed)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2)
//     for access hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//   - Other targets: MapAnon returns ErrUnsupported
//
// # Thread Safety
//
// A Mapping may be read and written from many goroutines. Close is
// idempotent and guarded by an atomic flag, but callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
