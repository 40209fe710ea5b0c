package mmap

import (
	"math"
	"os"
	"sync/atomic"
	"unsafe"
)

// Mapping is an anonymous memory mapping.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// PageSize returns the operating system page size.
func PageSize() int {
	return os.Getpagesize()
}

// RoundToPage rounds size up to a multiple of the page size.
func RoundToPage(size int) (int, error) {
	page := PageSize()
	if size < 0 || size > math.MaxInt-page {
		return 0, ErrInvalidSize
	}
	if size == 0 {
		return page, nil
	}
	return (size + page - 1) &^ (page - 1), nil
}

// MapAnon maps at least size bytes of zeroed, private, read-write memory.
// The mapping is rounded up to whole pages and always spans at least one.
func MapAnon(size int) (*Mapping, error) {
	size, err := RoundToPage(size)
	if err != nil {
		return nil, err
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the mapped memory.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Addr returns the start address of the mapping, or nil once closed.
func (m *Mapping) Addr() unsafe.Pointer {
	if m.closed.Load() || len(m.data) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(m.data))
}

// Size returns the size of the mapping in bytes (a multiple of the page size).
func (m *Mapping) Size() int {
	return len(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// Release tells the kernel the pages wholly beyond off are unused. They stay
// mapped and read as zeros once touched again.
func (m *Mapping) Release(off int) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if off < 0 {
		return ErrInvalidSize
	}
	start, err := RoundToPage(off)
	if err != nil {
		return err
	}
	if off == 0 {
		start = 0
	}
	if start >= len(m.data) {
		return nil
	}
	return osAdvise(m.data[start:], AccessDontNeed)
}
