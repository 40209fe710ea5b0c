//go:build linux || darwin || freebsd || netbsd || openbsd || windows

package backend

import (
	"sync"
	"unsafe"

	"modernc.org/memory"
)

var (
	_ Heap  = (*System)(nil)
	_ Sizer = (*System)(nil)
)

// System is the default backend: a malloc over OS pages that never touches
// the Go heap. modernc.org/memory is not safe for concurrent use, so every
// call is serialized on a mutex; a refill may mmap, which is too long a hold
// for a spin lock.
type System struct {
	mu     sync.Mutex
	heap   memory.Allocator
	closed bool
}

// NewSystem creates a System backend.
func NewSystem() *System {
	return &System{}
}

// Malloc implements Heap.
func (s *System) Malloc(size int) (unsafe.Pointer, error) {
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.heap.UnsafeMalloc(size)
}

// Realloc implements Heap.
func (s *System) Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.heap.UnsafeRealloc(p, size)
}

// Free implements Heap.
func (s *System) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.heap.UnsafeFree(p)
}

// UsableSize implements Sizer.
func (s *System) UsableSize(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}
	return memory.UnsafeUsableSize(p)
}

// Close returns every page to the OS. All outstanding blocks become invalid.
func (s *System) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.heap.Close()
}
