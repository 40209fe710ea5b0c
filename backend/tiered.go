package backend

import (
	"errors"
	"io"
	"unsafe"
)

// DefaultLargeThreshold is the request size at which Tiered switches to the
// large backend.
const DefaultLargeThreshold = 1 << 20

var _ OwnedHeap = (*Tiered)(nil)

// Tiered sends requests of at least Threshold bytes to Large and everything
// else to Small. Realloc and Free route by ownership. A small block grown
// past Threshold moves to Large when Small is a Sizer; otherwise it stays in
// Small. Large blocks never move back.
type Tiered struct {
	small     Heap
	large     OwnedHeap
	threshold int
}

// NewTiered creates a Tiered backend. A nil small defaults to NewSystem, a
// nil large to NewPages and a non-positive threshold to
// DefaultLargeThreshold.
func NewTiered(small Heap, large OwnedHeap, threshold int) *Tiered {
	if small == nil {
		small = NewSystem()
	}
	if large == nil {
		large = NewPages()
	}
	if threshold <= 0 {
		threshold = DefaultLargeThreshold
	}
	return &Tiered{small: small, large: large, threshold: threshold}
}

// Threshold returns the size at which requests go to the large tier.
func (t *Tiered) Threshold() int {
	return t.threshold
}

// Malloc implements Heap.
func (t *Tiered) Malloc(size int) (unsafe.Pointer, error) {
	if size >= t.threshold {
		return t.large.Malloc(size)
	}
	return t.small.Malloc(size)
}

// Realloc implements Heap.
func (t *Tiered) Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if p == nil {
		return t.Malloc(size)
	}
	if t.large.Owns(p) {
		return t.large.Realloc(p, size)
	}
	if size >= t.threshold {
		if s, ok := t.small.(Sizer); ok {
			return t.promote(p, size, s.UsableSize(p))
		}
	}
	return t.small.Realloc(p, size)
}

// promote copies a small block of old usable bytes into a new large block.
func (t *Tiered) promote(p unsafe.Pointer, size, old int) (unsafe.Pointer, error) {
	q, err := t.large.Malloc(size)
	if err != nil {
		return nil, err
	}
	n := min(old, size)
	copy(unsafe.Slice((*byte)(q), n), unsafe.Slice((*byte)(p), n))

	if err := t.small.Free(p); err != nil {
		_ = t.large.Free(q)
		return nil, err
	}
	return q, nil
}

// Free implements Heap.
func (t *Tiered) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	if t.large.Owns(p) {
		return t.large.Free(p)
	}
	return t.small.Free(p)
}

// Owns implements OwnedHeap. Only the large tier can answer precisely; a
// small tier without ownership tracking is assumed to own the rest.
func (t *Tiered) Owns(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	if t.large.Owns(p) {
		return true
	}
	if o, ok := t.small.(OwnedHeap); ok {
		return o.Owns(p)
	}
	return true
}

// Close closes both tiers when they support it.
func (t *Tiered) Close() error {
	var errs []error
	for _, h := range []any{t.small, t.large} {
		if c, ok := h.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
