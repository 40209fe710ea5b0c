package spinlock

import (
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	assert.Equal(t, CacheLineSize, unsafe.Sizeof(SpinLock{}))

	var locks [4]SpinLock
	assert.Equal(t, 4*CacheLineSize, unsafe.Sizeof(locks))
}

func TestCounter(t *testing.T) {
	tests := []struct {
		name       string
		goroutines int
		iterations int
	}{
		{"2x10000", 2, 10_000},
		{"8x5000", 8, 5_000},
		{"oversubscribed", 4 * runtime.GOMAXPROCS(0), 1_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				l       SpinLock
				counter int
				wg      sync.WaitGroup
			)
			for range tt.goroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range tt.iterations {
						l.Lock()
						counter++
						l.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, tt.goroutines*tt.iterations, counter)
		})
	}
}

func TestTryLock(t *testing.T) {
	if runtime.GOARCH == "wasm" {
		t.Skip("lock is a no-op without threads")
	}

	var l SpinLock
	require.True(t, l.TryLock())
	assert.False(t, l.TryLock())

	l.Unlock()
	assert.True(t, l.TryLock())
	l.Unlock()
}

func TestLocker(t *testing.T) {
	var l SpinLock
	var locker sync.Locker = &l

	shared := make(map[int]int)
	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				locker.Lock()
				shared[g*1000+i] = i
				locker.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, shared, 4000)
}

func TestLockArray(t *testing.T) {
	var (
		locks    [8]SpinLock
		counters [8]int
		wg       sync.WaitGroup
	)
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 2000 {
				k := (g + i) % len(locks)
				locks[k].Lock()
				counters[k]++
				locks[k].Unlock()
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, c := range counters {
		total += c
	}
	assert.Equal(t, 16*2000, total)
}

func BenchmarkLockUnlock(b *testing.B) {
	var l SpinLock
	b.ReportAllocs()
	for b.Loop() {
		l.Lock()
		l.Unlock()
	}
}

func BenchmarkLockContended(b *testing.B) {
	var (
		l       SpinLock
		counter int
	)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			counter++
			l.Unlock()
		}
	})
	_ = counter
}
