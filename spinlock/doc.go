// Package spinlock provides a minimal busy-wait mutual exclusion lock for
// critical sections that last a handful of instructions.
//
// # Algorithm
//
// Lock attempts a compare-and-swap from free to held. When that fails it
// spins on a plain load, executing the CPU's spin-wait hint on every round,
// until the lock is observed free, and then retries the compare-and-swap.
// Unlock stores free. Go atomics are sequentially consistent, which gives
// the acquire/release edge between an Unlock and the next successful Lock.
//
// There is no fairness, no owner, no recursion and no timeout. Calling Lock
// twice on the same goroutine without an Unlock spins forever.
//
// # Platforms
//
//   - darwin: delegates to sync.Mutex, the runtime's own lock, instead of
//     the hand-rolled loop.
//   - wasm (js, wasip1): the runtime has no threads, so Lock and Unlock do
//     nothing.
//   - everything else: atomic compare-and-swap with the spin-wait hint.
//
// # Layout
//
// A SpinLock is exactly one cache line wide on every platform, so arrays of
// locks never share a line between neighbours.
package spinlock
