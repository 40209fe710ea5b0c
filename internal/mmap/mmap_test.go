package mmap

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToPage(t *testing.T) {
	page := PageSize()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"zero maps one page", 0, page},
		{"one byte", 1, page},
		{"exact page", page, page},
		{"page plus one", page + 1, 2 * page},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoundToPage(tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := RoundToPage(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMapAnon(t *testing.T) {
	if runtime.GOOS == "js" || runtime.GOOS == "wasip1" {
		t.Skip("no anonymous mappings")
	}

	m, err := MapAnon(100)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, PageSize(), m.Size())
	data := m.Bytes()
	require.Len(t, data, m.Size())

	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zero", i)
		}
	}

	// Writable end to end.
	data[0] = 0xAB
	data[len(data)-1] = 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
	assert.Equal(t, uintptr(0), uintptr(m.Addr())%uintptr(PageSize()))

	assert.NoError(t, m.Advise(AccessSequential))
	assert.NoError(t, m.Advise(AccessDefault))
}

func TestMapping_Close(t *testing.T) {
	if runtime.GOOS == "js" || runtime.GOOS == "wasip1" {
		t.Skip("no anonymous mappings")
	}

	m, err := MapAnon(PageSize() * 2)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	assert.NoError(t, m.Close(), "close must be idempotent")

	assert.Nil(t, m.Bytes())
	assert.Nil(t, m.Addr())
	assert.ErrorIs(t, m.Advise(AccessSequential), ErrClosed)
}

func TestMapping_Release(t *testing.T) {
	if runtime.GOOS == "js" || runtime.GOOS == "wasip1" {
		t.Skip("no anonymous mappings")
	}

	page := PageSize()
	m, err := MapAnon(page * 4)
	require.NoError(t, err)
	defer m.Close()

	b := m.Bytes()
	for i := range b {
		b[i] = 0xAB
	}

	require.NoError(t, m.Release(page+1))
	assert.Equal(t, byte(0xAB), b[page], "partial page must be kept")
	assert.Equal(t, byte(0xAB), b[2*page-1])

	require.NoError(t, m.Release(m.Size()))
	assert.ErrorIs(t, m.Release(-1), ErrInvalidSize)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Release(0), ErrClosed)
}
