//go:build darwin

package spinlock

import (
	"sync"
	"unsafe"
)

// SpinLock is a short-hold lock. On darwin it wraps the runtime mutex,
// which is unfair and spins briefly before parking. The zero value is
// unlocked. A SpinLock must not be copied after first use.
type SpinLock struct {
	mu sync.Mutex
	_  [CacheLineSize - unsafe.Sizeof(sync.Mutex{})]byte
}

// Lock acquires the lock.
func (l *SpinLock) Lock() {
	l.mu.Lock()
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *SpinLock) TryLock() bool {
	return l.mu.TryLock()
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	l.mu.Unlock()
}
