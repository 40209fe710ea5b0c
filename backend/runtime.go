package backend

import (
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/memcore/internal/layout"
	"github.com/hupe1980/memcore/spinlock"
)

const (
	shardBits  = 6
	shardCount = 1 << shardBits
)

var (
	_ OwnedHeap = (*Runtime)(nil)
	_ Sizer     = (*Runtime)(nil)
)

type block struct {
	buf []byte // backing array; pins the block for the collector
	off int    // payload start within buf
}

type shard struct {
	mu     spinlock.SpinLock
	blocks map[uintptr]block
	_      cpu.CacheLinePad
}

// Runtime allocates from the Go heap. Blocks are kept reachable in a
// registry until freed, so the collector never reclaims memory that is
// still referenced only through a raw pointer. Registry shards are guarded
// by spin locks: each critical section is a single map operation.
//
// Memory is zeroed by the runtime and typed as []byte, so the collector
// does not scan it; never store Go pointers in a Runtime block.
type Runtime struct {
	shards [shardCount]shard
}

// NewRuntime creates a Runtime backend.
func NewRuntime() *Runtime {
	r := &Runtime{}
	for i := range r.shards {
		r.shards[i].blocks = make(map[uintptr]block)
	}
	return r
}

func (r *Runtime) shardFor(addr uintptr) *shard {
	// Fibonacci hashing; low bits are always zero because of alignment.
	h := (uint64(addr) >> 4) * 0x9E3779B97F4A7C15
	return &r.shards[h>>(64-shardBits)]
}

// Malloc implements Heap.
func (r *Runtime) Malloc(size int) (unsafe.Pointer, error) {
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size+layout.MaxAlign)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	off := int(layout.AlignUp(base, uintptr(layout.MaxAlign)) - base)
	p := unsafe.Pointer(&buf[off])

	s := r.shardFor(uintptr(p))
	s.mu.Lock()
	s.blocks[uintptr(p)] = block{buf: buf[:off+size], off: off}
	s.mu.Unlock()

	return p, nil
}

func (r *Runtime) lookup(p unsafe.Pointer) (block, bool) {
	s := r.shardFor(uintptr(p))
	s.mu.Lock()
	b, ok := s.blocks[uintptr(p)]
	s.mu.Unlock()
	return b, ok
}

// Realloc implements Heap. Shrinking and growth within the original
// capacity stay in place.
func (r *Runtime) Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if p == nil {
		return r.Malloc(size)
	}
	size, err := requestSize(size)
	if err != nil {
		return nil, err
	}

	old, ok := r.lookup(p)
	if !ok {
		return nil, ErrUnknownBlock
	}
	if size <= cap(old.buf)-old.off {
		s := r.shardFor(uintptr(p))
		s.mu.Lock()
		s.blocks[uintptr(p)] = block{buf: old.buf[:old.off+size], off: old.off}
		s.mu.Unlock()
		return p, nil
	}

	q, err := r.Malloc(size)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(q), size), old.buf[old.off:])

	if err := r.Free(p); err != nil {
		return nil, err
	}
	return q, nil
}

// Free implements Heap.
func (r *Runtime) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}

	s := r.shardFor(uintptr(p))
	s.mu.Lock()
	_, ok := s.blocks[uintptr(p)]
	delete(s.blocks, uintptr(p))
	s.mu.Unlock()

	if !ok {
		return ErrUnknownBlock
	}
	return nil
}

// Owns implements OwnedHeap.
func (r *Runtime) Owns(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	_, ok := r.lookup(p)
	return ok
}

// UsableSize implements Sizer.
func (r *Runtime) UsableSize(p unsafe.Pointer) int {
	b, ok := r.lookup(p)
	if !ok {
		return 0
	}
	return cap(b.buf) - b.off
}

// Live returns the number of blocks currently allocated.
func (r *Runtime) Live() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.blocks)
		s.mu.Unlock()
	}
	return n
}
