package memory

import (
	"unsafe"

	"github.com/hupe1980/memcore/internal/layout"
)

// Header geometry, see package layout.
const (
	MaxAlign      = layout.MaxAlign
	SizeOffset    = layout.SizeOffset
	ElementOffset = layout.ElementOffset
	DataOffset    = layout.DataOffset
)

// blockStart maps a data pointer back to the start of its pre-padded block.
func blockStart(data unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(data, -DataOffset)
}

func sizeField(block unsafe.Pointer) *uint64 {
	return (*uint64)(unsafe.Add(block, SizeOffset))
}

// ElementCount returns the element-count slot of a block allocated with a
// header. data must come from Alloc or Realloc with padHeader set.
func ElementCount(data unsafe.Pointer) *uint64 {
	return (*uint64)(unsafe.Add(data, ElementOffset-DataOffset))
}

// Bytes views n bytes at p as a slice. It returns nil for a nil p or n <= 0.
func Bytes(p unsafe.Pointer, n int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}
