package backend

import (
	"errors"
	"unsafe"
)

var (
	// ErrClosed is returned by a backend after Close.
	ErrClosed = errors.New("backend: closed")
	// ErrInvalidSize is returned for a negative size.
	ErrInvalidSize = errors.New("backend: invalid size")
	// ErrUnknownBlock is returned when a pointer was not produced by the backend.
	ErrUnknownBlock = errors.New("backend: unknown block")
)

// Heap is a general-purpose allocator over raw pointers.
type Heap interface {
	// Malloc returns a block of at least size bytes. Contents are undefined.
	Malloc(size int) (unsafe.Pointer, error)
	// Realloc resizes the block at p, preserving min(old, size) bytes.
	// On error the original block is untouched.
	Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error)
	// Free releases the block at p.
	Free(p unsafe.Pointer) error
}

// OwnedHeap is a Heap that can tell whether it produced a pointer.
type OwnedHeap interface {
	Heap
	Owns(p unsafe.Pointer) bool
}

// Sizer reports the usable size of a block.
type Sizer interface {
	UsableSize(p unsafe.Pointer) int
}

func requestSize(size int) (int, error) {
	if size < 0 {
		return 0, ErrInvalidSize
	}
	if size == 0 {
		return 1, nil
	}
	return size, nil
}
