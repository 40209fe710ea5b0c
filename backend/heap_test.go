package backend

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memcore/internal/layout"
)

func hasPages() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd", "openbsd", "windows":
		return true
	default:
		return false
	}
}

func newHeaps(t *testing.T) map[string]Heap {
	t.Helper()

	heaps := map[string]Heap{
		"runtime": NewRuntime(),
	}
	if hasPages() {
		sys := NewSystem()
		pages := NewPages()
		tiered := NewTiered(NewSystem(), NewPages(), 4096)
		t.Cleanup(func() {
			_ = sys.Close()
			_ = pages.Close()
			_ = tiered.Close()
		})
		heaps["system"] = sys
		heaps["pages"] = pages
		heaps["tiered"] = tiered
	}
	return heaps
}

func fill(p unsafe.Pointer, n int, seed byte) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

func verify(t *testing.T, p unsafe.Pointer, n int, seed byte) {
	t.Helper()
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		if b[i] != seed+byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, b[i], seed+byte(i))
		}
	}
}

func TestHeap_MallocFree(t *testing.T) {
	for name, h := range newHeaps(t) {
		t.Run(name, func(t *testing.T) {
			for _, size := range []int{0, 1, 7, 16, 100, 4095, 4096, 70000} {
				p, err := h.Malloc(size)
				require.NoError(t, err, "size=%d", size)
				require.NotNil(t, p)
				assert.Zero(t, uintptr(p)%uintptr(layout.MaxAlign), "size=%d not aligned", size)

				fill(p, size, 3)
				verify(t, p, size, 3)
				require.NoError(t, h.Free(p))
			}
		})
	}
}

func TestHeap_Realloc(t *testing.T) {
	for name, h := range newHeaps(t) {
		t.Run(name, func(t *testing.T) {
			p, err := h.Malloc(64)
			require.NoError(t, err)
			fill(p, 64, 9)

			// Grow across the tiered threshold and well past a page.
			for _, size := range []int{128, 5000, 100000} {
				p, err = h.Realloc(p, size)
				require.NoError(t, err)
				verify(t, p, 64, 9)
			}

			// Shrink keeps the prefix.
			p, err = h.Realloc(p, 32)
			require.NoError(t, err)
			verify(t, p, 32, 9)

			require.NoError(t, h.Free(p))
		})
	}
}

func TestHeap_ReallocNil(t *testing.T) {
	for name, h := range newHeaps(t) {
		t.Run(name, func(t *testing.T) {
			p, err := h.Realloc(nil, 10)
			require.NoError(t, err)
			require.NotNil(t, p)
			require.NoError(t, h.Free(p))
			require.NoError(t, h.Free(nil))
		})
	}
}

func TestHeap_InvalidSize(t *testing.T) {
	for name, h := range newHeaps(t) {
		t.Run(name, func(t *testing.T) {
			_, err := h.Malloc(-1)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestHeap_Concurrent(t *testing.T) {
	for name, h := range newHeaps(t) {
		t.Run(name, func(t *testing.T) {
			const (
				workers = 8
				rounds  = 200
			)

			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(seed byte) {
					defer wg.Done()
					for i := 0; i < rounds; i++ {
						size := 16 + (i*37)%512
						p, err := h.Malloc(size)
						if err != nil {
							errs <- err
							return
						}
						fill(p, size, seed)
						b := unsafe.Slice((*byte)(p), size)
						for j := range b {
							if b[j] != seed+byte(j) {
								errs <- fmt.Errorf("worker %d: corrupted byte %d", seed, j)
								return
							}
						}
						if err := h.Free(p); err != nil {
							errs <- err
							return
						}
					}
				}(byte(w))
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Error(err)
			}
		})
	}
}

func TestRuntime_Registry(t *testing.T) {
	r := NewRuntime()

	p, err := r.Malloc(100)
	require.NoError(t, err)
	assert.True(t, r.Owns(p))
	assert.Equal(t, 1, r.Live())
	assert.GreaterOrEqual(t, r.UsableSize(p), 100)

	// Force a collection; the registry must keep the block alive.
	fill(p, 100, 1)
	runtime.GC()
	verify(t, p, 100, 1)

	require.NoError(t, r.Free(p))
	assert.False(t, r.Owns(p))
	assert.Equal(t, 0, r.Live())

	assert.ErrorIs(t, r.Free(p), ErrUnknownBlock)
	_, err = r.Realloc(p, 10)
	assert.ErrorIs(t, err, ErrUnknownBlock)
}

func TestPages_Ownership(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	pg := NewPages()
	defer pg.Close()

	p, err := pg.Malloc(10)
	require.NoError(t, err)
	assert.True(t, pg.Owns(p))
	assert.Equal(t, os.Getpagesize(), pg.UsableSize(p))

	// Fits the existing mapping: same address.
	q, err := pg.Realloc(p, pg.UsableSize(p))
	require.NoError(t, err)
	assert.Equal(t, p, q)

	require.NoError(t, pg.Free(q))
	assert.ErrorIs(t, pg.Free(q), ErrUnknownBlock)
}

func TestPages_ShrinkInPlace(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	pg := NewPages()
	defer pg.Close()

	size := 4 * os.Getpagesize()
	p, err := pg.Malloc(size)
	require.NoError(t, err)
	fill(p, size, 3)

	q, err := pg.Realloc(p, 10)
	require.NoError(t, err)
	assert.Equal(t, p, q)
	verify(t, q, 10, 3)
	verify(t, q, os.Getpagesize(), 3)

	require.NoError(t, pg.Free(q))
}

func TestPages_Close(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	pg := NewPages()
	_, err := pg.Malloc(10)
	require.NoError(t, err)

	require.NoError(t, pg.Close())
	require.NoError(t, pg.Close())

	_, err = pg.Malloc(10)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSystem_Close(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	s := NewSystem()
	p, err := s.Malloc(10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.UsableSize(p), 10)
	assert.Zero(t, s.UsableSize(nil))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Malloc(10)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Realloc(nil, 10)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Free(p), ErrClosed)
}

func TestTiered_Routing(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	small := NewRuntime()
	large := NewPages()
	tr := NewTiered(small, large, 1024)
	defer tr.Close()

	assert.Equal(t, 1024, tr.Threshold())

	ps, err := tr.Malloc(100)
	require.NoError(t, err)
	pl, err := tr.Malloc(1024)
	require.NoError(t, err)

	assert.True(t, small.Owns(ps))
	assert.False(t, large.Owns(ps))
	assert.True(t, large.Owns(pl))
	assert.True(t, tr.Owns(ps))
	assert.True(t, tr.Owns(pl))

	// Growing within the small tier keeps the block there.
	ps, err = tr.Realloc(ps, 512)
	require.NoError(t, err)
	assert.True(t, small.Owns(ps))

	// Growing past the threshold moves it to the large tier.
	fill(ps, 512, 3)
	ps, err = tr.Realloc(ps, 4096)
	require.NoError(t, err)
	assert.True(t, large.Owns(ps))
	assert.Equal(t, 0, small.Live())
	verify(t, ps, 512, 3)

	// Large blocks stay large when shrunk.
	ps, err = tr.Realloc(ps, 100)
	require.NoError(t, err)
	assert.True(t, large.Owns(ps))
	verify(t, ps, 100, 3)

	require.NoError(t, tr.Free(ps))
	require.NoError(t, tr.Free(pl))
	assert.Equal(t, 0, small.Live())
	assert.False(t, tr.Owns(ps))
}

// plainHeap hides the Sizer of the heap it wraps.
type plainHeap struct{ h Heap }

func (p plainHeap) Malloc(size int) (unsafe.Pointer, error) { return p.h.Malloc(size) }
func (p plainHeap) Realloc(q unsafe.Pointer, size int) (unsafe.Pointer, error) {
	return p.h.Realloc(q, size)
}
func (p plainHeap) Free(q unsafe.Pointer) error { return p.h.Free(q) }

func TestTiered_NoSizer(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	small := NewRuntime()
	large := NewPages()
	tr := NewTiered(plainHeap{small}, large, 1024)
	defer tr.Close()

	p, err := tr.Malloc(100)
	require.NoError(t, err)
	p, err = tr.Realloc(p, 4096)
	require.NoError(t, err)
	assert.True(t, small.Owns(p))
	assert.False(t, large.Owns(p))

	require.NoError(t, tr.Free(p))
	assert.Equal(t, 0, small.Live())
}

func TestTiered_Defaults(t *testing.T) {
	if !hasPages() {
		t.Skip("no anonymous mappings")
	}

	tr := NewTiered(nil, nil, 0)
	defer tr.Close()

	assert.Equal(t, DefaultLargeThreshold, tr.Threshold())
	_, ok := tr.small.(*System)
	assert.True(t, ok)
	_, ok = tr.large.(*Pages)
	assert.True(t, ok)
}

func BenchmarkHeap_MallocFree(b *testing.B) {
	heaps := map[string]Heap{"runtime": NewRuntime()}
	if hasPages() {
		heaps["system"] = NewSystem()
	}
	for name, h := range heaps {
		for _, size := range []int{16, 256, 4096} {
			b.Run(fmt.Sprintf("%s/size=%d", name, size), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					p, err := h.Malloc(size)
					if err != nil {
						b.Fatal(err)
					}
					_ = h.Free(p)
				}
			})
		}
	}
}
