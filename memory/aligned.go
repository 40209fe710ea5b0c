package memory

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/hupe1980/memcore/internal/layout"
)

// offsetSize is the width of the stored distance to the block start.
const offsetSize = 4

// maxAlignment keeps the stored distance inside a uint32.
const maxAlignment = 1 << 30

func offsetSlot(p unsafe.Pointer) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(p, -offsetSize)), offsetSize)
}

// AllocAligned returns a block of bytes bytes whose address is a multiple
// of alignment, which must be a power of two. Release it with FreeAligned.
func (a *Allocator) AllocAligned(bytes, alignment int) (unsafe.Pointer, error) {
	if !layout.IsPowerOfTwo(alignment) || alignment > maxAlignment {
		return nil, a.fail(OpAllocAligned, bytes, ErrInvalidAlignment)
	}
	if bytes < 0 || bytes > math.MaxInt-alignment-offsetSize-DataOffset {
		return nil, a.fail(OpAllocAligned, bytes, ErrInvalidSize)
	}

	raw, err := a.Alloc(bytes+alignment-1+offsetSize, false)
	if err != nil {
		return nil, err
	}

	start := uintptr(raw)
	off := layout.AlignUp(start+offsetSize, uintptr(alignment)) - start
	p := unsafe.Add(raw, off)
	binary.LittleEndian.PutUint32(offsetSlot(p), uint32(off))
	return p, nil
}

// ReallocAligned moves the aligned block at p into a new block of bytes
// bytes, copying min(prevBytes, bytes). prevBytes is the caller's record of
// the old size. A nil p behaves like AllocAligned; a zero size frees p and
// returns nil. On failure p is untouched.
func (a *Allocator) ReallocAligned(p unsafe.Pointer, bytes, prevBytes, alignment int) (unsafe.Pointer, error) {
	if p == nil {
		return a.AllocAligned(bytes, alignment)
	}
	if prevBytes < 0 {
		return nil, a.fail(OpReallocAligned, prevBytes, ErrInvalidSize)
	}
	if bytes == 0 && layout.IsPowerOfTwo(alignment) {
		a.FreeAligned(p)
		return nil, nil
	}

	q, err := a.AllocAligned(bytes, alignment)
	if err != nil {
		return nil, err
	}
	if n := min(prevBytes, bytes); n > 0 {
		copy(unsafe.Slice((*byte)(q), n), unsafe.Slice((*byte)(p), n))
	}
	a.FreeAligned(p)
	return q, nil
}

// FreeAligned releases a block from AllocAligned or ReallocAligned.
// A nil p is a no-op.
func (a *Allocator) FreeAligned(p unsafe.Pointer) {
	if p == nil {
		return
	}
	off := binary.LittleEndian.Uint32(offsetSlot(p))
	a.Free(unsafe.Add(p, -int(off)), false)
}
