// Package layout defines the block header geometry shared by the allocator
// and its backends.
//
//	Alignment:  ↓ MaxAlign           ↓ 8                 ↓ MaxAlign
//	            ┌─────────────────┬──┬────────────────┬──┬───────────...
//	            │ uint64          │░░│ uint64         │░░│ data
//	            │ requested bytes │░░│ element count  │░░│
//	            └─────────────────┴──┴────────────────┴──┴───────────...
//	Offset:     ↑ SizeOffset         ↑ ElementOffset     ↑ DataOffset
package layout

import "unsafe"

// maxAligned has the strictest alignment of any Go scalar.
type maxAligned struct {
	_ uint64
	_ float64
	_ complex128
	_ uintptr
	_ unsafe.Pointer
}

const naturalAlign = int(unsafe.Alignof(maxAligned{}))

const (
	// SizeOffset is the offset of the requested byte count.
	SizeOffset = 0
	// ElementOffset is the offset of the element count, 8-byte aligned.
	ElementOffset = (SizeOffset + 8 + 7) &^ 7
	// DataOffset is the offset of the payload, MaxAlign aligned.
	DataOffset = (ElementOffset + 8 + MaxAlign - 1) &^ (MaxAlign - 1)
)

// AlignUp rounds addr up to the next multiple of align.
// align must be positive; it need not be a power of two.
func AlignUp(addr, align uintptr) uintptr {
	if r := addr % align; r != 0 {
		return addr + align - r
	}
	return addr
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
