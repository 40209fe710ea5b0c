package memory

import (
	"math"
	"reflect"
	"sync"
	"unsafe"
)

// Initializer is implemented by element types that need setup after their
// storage is zeroed.
type Initializer interface {
	Init()
}

// Destroyer is implemented by element types that need teardown before their
// storage is released.
type Destroyer interface {
	Destroy()
}

// elemErrs caches per element type the result of checkElem.
var elemErrs sync.Map // reflect.Type -> error

// checkElem rejects types holding Go pointers, which the collector cannot
// see in allocator memory, and types needing more than MaxAlign.
func checkElem[T any]() error {
	t := reflect.TypeFor[T]()
	if v, ok := elemErrs.Load(t); ok {
		err, _ := v.(error)
		return err
	}
	var err error
	switch {
	case hasPointers(t):
		err = ErrPointerElement
	case t.Align() > MaxAlign:
		err = ErrInvalidAlignment
	}
	elemErrs.Store(t, err)
	return err
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func arrayBytes[T any](n int) (int, error) {
	size := elemSize[T]()
	if n < 0 || (size > 0 && n > (math.MaxInt-DataOffset)/size) {
		return 0, ErrInvalidSize
	}
	return n * size, nil
}

// construct zeroes s and runs Init on each element.
func construct[T any](s []T) {
	clear(s)
	if _, ok := any((*T)(nil)).(Initializer); !ok {
		return
	}
	for i := range s {
		any(&s[i]).(Initializer).Init()
	}
}

func destroy[T any](s []T) {
	if _, ok := any((*T)(nil)).(Destroyer); !ok {
		return
	}
	for i := range s {
		any(&s[i]).(Destroyer).Destroy()
	}
}

// NewArray allocates n elements of T with a header recording n.
// Elements are zeroed, then initialized when *T implements Initializer.
// n == 0 returns a nil slice. Element types holding Go pointers are rejected
// with ErrPointerElement. Release the slice with FreeArray.
func NewArray[T any](a *Allocator, n int) ([]T, error) {
	if err := checkElem[T](); err != nil {
		return nil, err
	}
	bytes, err := arrayBytes[T](n)
	if err != nil {
		return nil, a.fail(OpAlloc, n, err)
	}
	if n == 0 {
		return nil, nil
	}

	p, err := a.Alloc(bytes, true)
	if err != nil {
		return nil, err
	}
	*ElementCount(p) = uint64(n)

	s := unsafe.Slice((*T)(p), n)
	construct(s)
	return s, nil
}

// ArrayLen returns the element count stored in the header of an array from
// NewArray or ResizeArray. It returns 0 for a nil slice.
func ArrayLen[T any](s []T) int {
	return ArrayLenOf(unsafe.SliceData(s))
}

// ArrayLenOf is ArrayLen for a pointer to the first element.
func ArrayLenOf[T any](p *T) int {
	if p == nil {
		return 0
	}
	return int(*ElementCount(unsafe.Pointer(p)))
}

// ResizeArray changes the element count of an array to n. Dropped elements
// are destroyed, new ones are zeroed and initialized. A nil s behaves like
// NewArray and n == 0 frees s. On error s stays valid.
func ResizeArray[T any](a *Allocator, s []T, n int) ([]T, error) {
	p := unsafe.SliceData(s)
	if p == nil {
		return NewArray[T](a, n)
	}
	bytes, err := arrayBytes[T](n)
	if err != nil {
		return s, a.fail(OpRealloc, n, err)
	}
	if n == 0 {
		FreeArray(a, s)
		return nil, nil
	}

	old := ArrayLenOf(p)
	full := unsafe.Slice(p, old)

	if n < old {
		destroy(full[n:])
		*ElementCount(unsafe.Pointer(p)) = uint64(n)
		q, err := a.Realloc(unsafe.Pointer(p), bytes, true)
		if err != nil {
			// The old block still holds the surviving prefix.
			return full[:n:n], nil
		}
		return unsafe.Slice((*T)(q), n), nil
	}

	q, err := a.Realloc(unsafe.Pointer(p), bytes, true)
	if err != nil {
		return s, err
	}
	*ElementCount(q) = uint64(n)
	grown := unsafe.Slice((*T)(q), n)
	construct(grown[old:])
	return grown, nil
}

// FreeArray destroys every element of an array from NewArray or ResizeArray
// when *T implements Destroyer, then releases it. A nil s is a no-op.
func FreeArray[T any](a *Allocator, s []T) {
	p := unsafe.SliceData(s)
	if p == nil {
		return
	}
	destroy(unsafe.Slice(p, ArrayLenOf(p)))
	a.Free(unsafe.Pointer(p), true)
}
