package memory

import "unsafe"

// NewObject allocates a single T from a. The value is zeroed, then
// initialized when *T implements Initializer. Element type rules are those
// of NewArray. Release it with DeleteObject.
func NewObject[T any](a *Allocator) (*T, error) {
	if err := checkElem[T](); err != nil {
		return nil, err
	}
	p, err := a.Alloc(elemSize[T](), false)
	if err != nil {
		return nil, err
	}
	obj := (*T)(p)
	construct(unsafe.Slice(obj, 1))
	return obj, nil
}

// DeleteObject destroys obj when *T implements Destroyer, then releases it.
// A nil obj is a no-op.
func DeleteObject[T any](a *Allocator, obj *T) {
	if obj == nil {
		return
	}
	destroy(unsafe.Slice(obj, 1))
	a.Free(unsafe.Pointer(obj), false)
}

// TypedAllocator hands out single objects of one type.
type TypedAllocator[T any] struct {
	a *Allocator
}

// NewTypedAllocator returns a TypedAllocator drawing from a, or from
// Default when a is nil.
func NewTypedAllocator[T any](a *Allocator) TypedAllocator[T] {
	if a == nil {
		a = Default()
	}
	return TypedAllocator[T]{a: a}
}

// New is NewObject.
func (t TypedAllocator[T]) New() (*T, error) { return NewObject[T](t.a) }

// Delete is DeleteObject.
func (t TypedAllocator[T]) Delete(obj *T) { DeleteObject(t.a, obj) }
