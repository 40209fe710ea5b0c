package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/memcore/memory"
	"github.com/hupe1980/memcore/spinlock"
	"github.com/hupe1980/memcore/testutil"
)

// Config sizes the workload.
type Config struct {
	Goroutines   int   // default GOMAXPROCS
	Iterations   int   // per goroutine, default 1000
	MaxSize      int   // largest plain request, default 64 KiB
	MaxAlignment int   // largest aligned request alignment, default 4096
	Seed         int64 // base seed, goroutine g uses Seed+g
}

func (c Config) withDefaults() Config {
	if c.Goroutines <= 0 {
		c.Goroutines = runtime.GOMAXPROCS(0)
	}
	if c.Iterations <= 0 {
		c.Iterations = 1000
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 64 << 10
	}
	if c.MaxAlignment <= 0 {
		c.MaxAlignment = 4096
	}
	return c
}

// Report summarizes a run.
type Report struct {
	Goroutines int
	Iterations int
	Counter    int64 // increments observed under the lock
	Expected   int64 // Goroutines * Iterations
	Corrupted  int64 // blocks whose contents or alignment were wrong
	Rejected   int64 // requests refused with ErrOutOfMemory
	Before     memory.Stats
	After      memory.Stats
	Duration   time.Duration
}

// OK reports whether the run found no defect.
func (r Report) OK() bool {
	if r.Counter != r.Expected || r.Corrupted != 0 {
		return false
	}
	if r.After.AllocCount != r.Before.AllocCount {
		return false
	}
	return !r.After.Tracking || r.After.CurrentBytes == r.Before.CurrentBytes
}

func (r Report) String() string {
	status := "ok"
	if !r.OK() {
		status = "FAILED"
	}
	return fmt.Sprintf("%s: %d goroutines x %d iterations in %s, counter %d/%d, corrupted %d, rejected %d\n  before %s\n  after  %s",
		status, r.Goroutines, r.Iterations, r.Duration.Round(time.Millisecond),
		r.Counter, r.Expected, r.Corrupted, r.Rejected, r.Before, r.After)
}

// node is the element type of the single-object workload.
type node struct {
	magic uint64
	value uint64
}

const nodeMagic = 0x6d656d636f7265

func (n *node) Init()    { n.magic = nodeMagic }
func (n *node) Destroy() { n.magic = 0 }

type shared struct {
	alloc *memory.Allocator
	nodes memory.TypedAllocator[node]
	cfg   Config

	lock    spinlock.SpinLock
	counter int64

	corrupted atomic.Int64
	rejected  atomic.Int64
}

// Run executes the workload. It stops at the first unexpected error or when
// ctx is done; blocks held by a worker are released before it returns.
func Run(ctx context.Context, a *memory.Allocator, cfg Config) (Report, error) {
	cfg = cfg.withDefaults()
	s := &shared{alloc: a, nodes: memory.NewTypedAllocator[node](a), cfg: cfg}

	report := Report{
		Goroutines: cfg.Goroutines,
		Iterations: cfg.Iterations,
		Expected:   int64(cfg.Goroutines) * int64(cfg.Iterations),
		Before:     a.Stats(),
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range cfg.Goroutines {
		rng := testutil.NewRNG(cfg.Seed + int64(w))
		g.Go(func() error {
			return s.worker(ctx, rng)
		})
	}
	err := g.Wait()

	report.Duration = time.Since(start)
	s.lock.Lock()
	report.Counter = s.counter
	s.lock.Unlock()
	report.Corrupted = s.corrupted.Load()
	report.Rejected = s.rejected.Load()
	report.After = a.Stats()
	return report, err
}

func (s *shared) worker(ctx context.Context, rng *testutil.RNG) error {
	seed := byte(rng.Seed())
	for i := range s.cfg.Iterations {
		if err := ctx.Err(); err != nil {
			return err
		}

		size := rng.Size(s.cfg.MaxSize)
		if err := s.plain(size, i%2 == 0, seed+byte(i)); err != nil {
			return err
		}
		if err := s.aligned(size, rng.Alignment(s.cfg.MaxAlignment), seed); err != nil {
			return err
		}
		if err := s.array(1 + size/8); err != nil {
			return err
		}
		if err := s.object(uint64(i)); err != nil {
			return err
		}

		s.lock.Lock()
		s.counter++
		s.lock.Unlock()
	}
	return nil
}

// refused counts budget rejections, which are expected under a limit.
func (s *shared) refused(err error) bool {
	if errors.Is(err, memory.ErrOutOfMemory) {
		s.rejected.Add(1)
		return true
	}
	return false
}

func (s *shared) check(ok bool) {
	if !ok {
		s.corrupted.Add(1)
	}
}

func (s *shared) plain(size int, pad bool, seed byte) error {
	a := s.alloc

	p, err := a.Alloc(size, pad)
	if err != nil {
		if s.refused(err) {
			return nil
		}
		return err
	}
	testutil.FillPattern(memory.Bytes(p, size), seed)

	q, err := a.Realloc(p, size*2, pad)
	if err != nil {
		a.Free(p, pad)
		if s.refused(err) {
			return nil
		}
		return err
	}
	s.check(testutil.FindMismatch(memory.Bytes(q, size), seed) < 0)

	r, err := a.Realloc(q, size/2+1, pad)
	if err != nil {
		a.Free(q, pad)
		if s.refused(err) {
			return nil
		}
		return err
	}
	q = r
	s.check(testutil.FindMismatch(memory.Bytes(q, size/2+1), seed) < 0)

	a.Free(q, pad)
	return nil
}

func (s *shared) aligned(size, alignment int, seed byte) error {
	a := s.alloc

	p, err := a.AllocAligned(size, alignment)
	if err != nil {
		if s.refused(err) {
			return nil
		}
		return err
	}
	s.check(uintptr(p)%uintptr(alignment) == 0)
	testutil.FillPattern(memory.Bytes(p, size), seed)

	q, err := a.ReallocAligned(p, size+alignment, size, alignment)
	if err != nil {
		a.FreeAligned(p)
		if s.refused(err) {
			return nil
		}
		return err
	}
	s.check(uintptr(q)%uintptr(alignment) == 0)
	s.check(testutil.FindMismatch(memory.Bytes(q, size), seed) < 0)

	a.FreeAligned(q)
	return nil
}

func (s *shared) array(n int) error {
	a := s.alloc

	xs, err := memory.NewArray[uint64](a, n)
	if err != nil {
		if s.refused(err) {
			return nil
		}
		return err
	}
	s.check(memory.ArrayLen(xs) == n)
	for i := range xs {
		xs[i] = uint64(i)
	}

	half := (n + 1) / 2
	xs, err = memory.ResizeArray(a, xs, half)
	if err != nil {
		memory.FreeArray(a, xs)
		return err
	}
	s.check(memory.ArrayLen(xs) == half)
	s.check(xs[half-1] == uint64(half-1))

	memory.FreeArray(a, xs)
	return nil
}

func (s *shared) object(value uint64) error {
	n, err := s.nodes.New()
	if err != nil {
		if s.refused(err) {
			return nil
		}
		return err
	}
	s.check(n.magic == nodeMagic && n.value == 0)
	n.value = value
	s.check(n.value == value)

	s.nodes.Delete(n)
	return nil
}
