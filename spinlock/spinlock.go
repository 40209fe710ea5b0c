//go:build !darwin && !wasm

package spinlock

import (
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/memcore/internal/pause"
)

// SpinLock is a busy-wait lock. The zero value is unlocked.
// A SpinLock must not be copied after first use.
type SpinLock struct {
	locked atomic.Bool
	_      [CacheLineSize - unsafe.Sizeof(atomic.Bool{})]byte
}

// Lock spins until the lock is acquired.
func (l *SpinLock) Lock() {
	for {
		if l.locked.CompareAndSwap(false, true) {
			return
		}
		for l.locked.Load() {
			pause.Pause()
		}
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *SpinLock) TryLock() bool {
	return !l.locked.Load() && l.locked.CompareAndSwap(false, true)
}

// Unlock releases the lock. Unlocking a free lock is a caller error and is
// not detected.
func (l *SpinLock) Unlock() {
	l.locked.Store(false)
}
