package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsets(t *testing.T) {
	assert.Equal(t, 0, SizeOffset)
	assert.Equal(t, 8, ElementOffset)
	assert.GreaterOrEqual(t, DataOffset, 16)
	assert.Zero(t, DataOffset%MaxAlign)
	assert.True(t, IsPowerOfTwo(MaxAlign))
	assert.GreaterOrEqual(t, MaxAlign, 8)

	// Constant expressions agree with the runtime helper.
	assert.Equal(t, uintptr(ElementOffset), AlignUp(SizeOffset+8, 8))
	assert.Equal(t, uintptr(DataOffset), AlignUp(ElementOffset+8, uintptr(MaxAlign)))
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		addr, align, want uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 16, 16},
		{17, 16, 32},
		{10, 3, 12},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AlignUp(tt.addr, tt.align), "AlignUp(%d, %d)", tt.addr, tt.align)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 1024, 1 << 30} {
		assert.True(t, IsPowerOfTwo(n), n)
	}
	for _, n := range []int{0, -1, -8, 3, 6, 12, 1000} {
		assert.False(t, IsPowerOfTwo(n), n)
	}
}
