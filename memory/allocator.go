package memory

import (
	"log/slog"
	"math"
	"unsafe"

	"golang.org/x/time/rate"

	"github.com/hupe1980/memcore/backend"
	"github.com/hupe1980/memcore/internal/resource"
)

// Backend is the platform allocator an Allocator sits on.
type Backend = backend.Heap

// Operation names used in logs and failure reports.
const (
	OpAlloc          = "alloc"
	OpRealloc        = "realloc"
	OpFree           = "free"
	OpAllocAligned   = "alloc_aligned"
	OpReallocAligned = "realloc_aligned"
)

// Allocator hands out raw blocks from a Backend and keeps usage counters.
// It is safe for concurrent use.
type Allocator struct {
	heap     Backend
	tracking bool
	budget   *resource.Controller // nil without a limit
	logger   *slog.Logger
	logLimit *rate.Limiter
	metrics  MetricsCollector
	counters counters
}

// New creates an Allocator.
func New(optFns ...Option) *Allocator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.backend == nil {
		opts.backend = backend.NewSystem()
	}
	if opts.logger == nil {
		opts.logger = slog.New(slog.DiscardHandler)
	}
	if opts.metrics == nil {
		opts.metrics = noopMetrics{}
	}

	a := &Allocator{
		heap:     opts.backend,
		tracking: opts.tracking,
		logger:   opts.logger,
		logLimit: rate.NewLimiter(opts.failureRate, opts.failureBurst),
		metrics:  opts.metrics,
	}
	if opts.memoryLimit > 0 {
		a.tracking = true
		a.budget = resource.NewController(resource.Config{MemoryLimitBytes: opts.memoryLimit})
	}
	return a
}

// Backend returns the platform allocator.
func (a *Allocator) Backend() Backend { return a.heap }

// Tracking reports whether byte usage is accounted.
func (a *Allocator) Tracking() bool { return a.tracking }

// prepad reports whether a block carries the size header. Tracking forces
// it so Free and Realloc can read the size back.
func (a *Allocator) prepad(padHeader bool) bool {
	return padHeader || a.tracking
}

// Alloc returns a block of at least bytes bytes, aligned to MaxAlign.
// With padHeader the block carries a header whose element-count slot is
// reachable through ElementCount. A zero-byte request yields a valid block
// that must still be freed.
//
// The returned memory is not zeroed and must be released with Free using the
// same padHeader.
func (a *Allocator) Alloc(bytes int, padHeader bool) (unsafe.Pointer, error) {
	prepad := a.prepad(padHeader)
	if bytes < 0 || (prepad && bytes > math.MaxInt-DataOffset) {
		return nil, a.fail(OpAlloc, bytes, ErrInvalidSize)
	}

	total := bytes
	if prepad {
		total += DataOffset
	}

	if a.tracking {
		if err := a.budget.AcquireMemory(int64(bytes)); err != nil {
			err = outOfMemory(err)
			a.metrics.RecordAlloc(bytes, err)
			return nil, a.fail(OpAlloc, bytes, err)
		}
	}

	p, err := a.heap.Malloc(total)
	if err != nil || p == nil {
		a.budget.ReleaseMemory(int64(bytes))
		err = outOfMemory(err)
		a.metrics.RecordAlloc(bytes, err)
		return nil, a.fail(OpAlloc, bytes, err)
	}

	a.counters.count.Add(1)
	a.metrics.RecordAlloc(bytes, nil)

	if !prepad {
		return p, nil
	}

	*sizeField(p) = uint64(bytes)
	data := unsafe.Add(p, DataOffset)
	*ElementCount(data) = 0
	if a.tracking {
		a.counters.addBytes(uint64(bytes))
	}
	return data, nil
}

// Realloc resizes the block at p to bytes, preserving the common prefix.
// A nil p behaves like Alloc. A zero size frees the block and returns nil.
// On failure the original block stays valid and the counters are unchanged.
func (a *Allocator) Realloc(p unsafe.Pointer, bytes int, padHeader bool) (unsafe.Pointer, error) {
	if p == nil {
		return a.Alloc(bytes, padHeader)
	}

	prepad := a.prepad(padHeader)
	if bytes < 0 || (prepad && bytes > math.MaxInt-DataOffset) {
		return nil, a.fail(OpRealloc, bytes, ErrInvalidSize)
	}
	if bytes == 0 {
		a.Free(p, padHeader)
		return nil, nil
	}

	if !prepad {
		q, err := a.heap.Realloc(p, bytes)
		if err != nil || q == nil {
			err = outOfMemory(err)
			a.metrics.RecordRealloc(0, bytes, err)
			return nil, a.fail(OpRealloc, bytes, err)
		}
		a.metrics.RecordRealloc(0, bytes, nil)
		return q, nil
	}

	block := blockStart(p)
	old := *sizeField(block)
	next := uint64(bytes)

	var grow uint64
	if a.tracking && next > old {
		grow = next - old
		if err := a.budget.AcquireMemory(int64(grow)); err != nil {
			err = outOfMemory(err)
			a.metrics.RecordRealloc(int(old), bytes, err)
			return nil, a.fail(OpRealloc, bytes, err)
		}
	}

	q, err := a.heap.Realloc(block, bytes+DataOffset)
	if err != nil || q == nil {
		a.budget.ReleaseMemory(int64(grow))
		err = outOfMemory(err)
		a.metrics.RecordRealloc(int(old), bytes, err)
		return nil, a.fail(OpRealloc, bytes, err)
	}

	*sizeField(q) = next
	if a.tracking {
		if grow > 0 {
			a.counters.addBytes(grow)
		} else if old > next {
			a.counters.subBytes(old - next)
			a.budget.ReleaseMemory(int64(old - next))
		}
	}
	a.metrics.RecordRealloc(int(old), bytes, nil)
	return unsafe.Add(q, DataOffset), nil
}

// Free releases a block from Alloc or Realloc. padHeader must match the
// allocation. A nil p is a no-op.
func (a *Allocator) Free(p unsafe.Pointer, padHeader bool) {
	if p == nil {
		return
	}

	var bytes uint64
	if a.prepad(padHeader) {
		p = blockStart(p)
		bytes = *sizeField(p)
	}

	if err := a.heap.Free(p); err != nil {
		_ = a.fail(OpFree, int(bytes), err)
		return
	}

	saturatingSub(&a.counters.count, 1)
	if a.tracking {
		a.counters.subBytes(bytes)
		a.budget.ReleaseMemory(int64(bytes))
	}
	a.metrics.RecordFree(int(bytes))
}

// CurrentUsage returns the live requested bytes. Always 0 without tracking.
func (a *Allocator) CurrentUsage() uint64 { return a.counters.current.Load() }

// PeakUsage returns the highest CurrentUsage seen. Always 0 without tracking.
func (a *Allocator) PeakUsage() uint64 { return a.counters.peak.Load() }

// AllocCount returns the number of live blocks.
func (a *Allocator) AllocCount() uint64 { return a.counters.count.Load() }

// Stats returns a snapshot of the counters.
func (a *Allocator) Stats() Stats {
	return Stats{
		Tracking:     a.tracking,
		CurrentBytes: a.CurrentUsage(),
		PeakBytes:    a.PeakUsage(),
		AllocCount:   a.AllocCount(),
		LimitBytes:   a.budget.MemoryLimit(),
		LimitUsed:    a.budget.MemoryUsage(),
		LimitPeak:    a.budget.MemoryPeak(),
		Denied:       a.budget.Denied(),
	}
}

func (a *Allocator) fail(op string, bytes int, err error) error {
	if a.logLimit.Allow() {
		a.logger.Warn("allocation failed",
			slog.String("op", op),
			slog.Int("bytes", bytes),
			slog.Any("error", err),
		)
	}
	return err
}
