//go:build wasm

package spinlock

// SpinLock is a no-op on wasm, where goroutines never run in parallel and
// a critical section that does not block cannot be interleaved.
type SpinLock struct {
	_ [CacheLineSize]byte
}

// Lock does nothing.
func (l *SpinLock) Lock() {}

// TryLock always succeeds.
func (l *SpinLock) TryLock() bool { return true }

// Unlock does nothing.
func (l *SpinLock) Unlock() {}
