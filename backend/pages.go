package backend

import (
	"errors"
	"unsafe"

	"github.com/hupe1980/memcore/internal/mmap"
	"github.com/hupe1980/memcore/spinlock"
)

var (
	_ OwnedHeap = (*Pages)(nil)
	_ Sizer     = (*Pages)(nil)
)

// Pages maps every block as its own anonymous region, rounded up to whole
// pages. Free unmaps immediately, so memory goes straight back to the OS.
// The mapping table is guarded by a spin lock; system calls happen outside
// it.
type Pages struct {
	mu       spinlock.SpinLock
	mappings map[uintptr]*mmap.Mapping
	closed   bool
}

// NewPages creates a Pages backend.
func NewPages() *Pages {
	return &Pages{mappings: make(map[uintptr]*mmap.Mapping)}
}

// Malloc implements Heap.
func (pg *Pages) Malloc(size int) (unsafe.Pointer, error) {
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, err
	}
	p := m.Addr()

	pg.mu.Lock()
	if pg.closed {
		pg.mu.Unlock()
		_ = m.Close()
		return nil, ErrClosed
	}
	pg.mappings[uintptr(p)] = m
	pg.mu.Unlock()

	return p, nil
}

func (pg *Pages) lookup(p unsafe.Pointer) (*mmap.Mapping, bool) {
	pg.mu.Lock()
	m, ok := pg.mappings[uintptr(p)]
	pg.mu.Unlock()
	return m, ok
}

// Realloc implements Heap. A block that still fits its mapping is returned
// unchanged, with whole pages past the new size handed back to the kernel.
func (pg *Pages) Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if p == nil {
		return pg.Malloc(size)
	}
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	old, ok := pg.lookup(p)
	if !ok {
		return nil, ErrUnknownBlock
	}
	if size <= old.Size() {
		if err := old.Release(size); err != nil {
			return nil, err
		}
		return p, nil
	}

	q, err := pg.Malloc(size)
	if err != nil {
		return nil, err
	}
	// The old block is read once, front to back.
	_ = old.Advise(mmap.AccessSequential)
	copy(unsafe.Slice((*byte)(q), size), old.Bytes())

	if err := pg.Free(p); err != nil {
		return nil, err
	}
	return q, nil
}

// Free implements Heap.
func (pg *Pages) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}

	pg.mu.Lock()
	m, ok := pg.mappings[uintptr(p)]
	delete(pg.mappings, uintptr(p))
	pg.mu.Unlock()

	if !ok {
		return ErrUnknownBlock
	}
	return m.Close()
}

// Owns implements OwnedHeap.
func (pg *Pages) Owns(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	_, ok := pg.lookup(p)
	return ok
}

// UsableSize implements Sizer.
func (pg *Pages) UsableSize(p unsafe.Pointer) int {
	m, ok := pg.lookup(p)
	if !ok {
		return 0
	}
	return m.Size()
}

// Close unmaps every outstanding block.
func (pg *Pages) Close() error {
	pg.mu.Lock()
	if pg.closed {
		pg.mu.Unlock()
		return nil
	}
	pg.closed = true
	mappings := pg.mappings
	pg.mappings = make(map[uintptr]*mmap.Mapping)
	pg.mu.Unlock()

	var errs []error
	for _, m := range mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
