package memcore

import (
	"context"
	"io"
	"sync"

	"github.com/hupe1980/memcore/backend"
	"github.com/hupe1980/memcore/memory"
)

// Memory is an Allocator built from a Config, together with the backend it
// owns and the logger it reports to.
type Memory struct {
	*memory.Allocator

	cfg       Config
	logger    *Logger
	owned     io.Closer // nil when the backend belongs to the caller
	closeOnce sync.Once
	closeErr  error
}

// New builds a Memory from cfg.
func New(cfg Config, optFns ...Option) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.logger
	if logger == nil {
		logger = cfg.NewLogger()
	}

	m := &Memory{cfg: cfg}

	heap := opts.backend
	name := "custom"
	if heap == nil {
		heap = NewBackend(cfg)
		name = cfg.Backend
		if c, ok := heap.(io.Closer); ok {
			m.owned = c
		}
	}
	m.logger = logger.WithBackend(name)

	allocOpts := []memory.Option{
		memory.WithBackend(heap),
		memory.WithTracking(cfg.Tracking),
		memory.WithMemoryLimit(int64(cfg.MemoryLimit)),
		memory.WithLogger(m.logger.Logger),
	}
	if opts.metrics != nil {
		allocOpts = append(allocOpts, memory.WithMetrics(opts.metrics))
	}
	if opts.failureBurst > 0 {
		allocOpts = append(allocOpts, memory.WithFailureLogRate(opts.failureRate, opts.failureBurst))
	}
	m.Allocator = memory.New(allocOpts...)

	m.logger.Debug("allocator ready",
		"tracking", m.Tracking(),
		"memory_limit", cfg.MemoryLimit.String(),
	)
	return m, nil
}

// NewBackend constructs the platform allocator named by cfg.Backend.
// An unknown name yields the system backend.
func NewBackend(cfg Config) memory.Backend {
	switch cfg.Backend {
	case BackendRuntime:
		return backend.NewRuntime()
	case BackendPages:
		return backend.NewPages()
	case BackendTiered:
		return backend.NewTiered(backend.NewSystem(), backend.NewPages(), int(cfg.LargeThreshold))
	default:
		return backend.NewSystem()
	}
}

// Config returns the configuration m was built from.
func (m *Memory) Config() Config { return m.cfg }

// Logger returns the logger failures are reported to.
func (m *Memory) Logger() *Logger { return m.logger }

// LogUsage logs the current counters.
func (m *Memory) LogUsage(ctx context.Context) {
	m.logger.LogUsage(ctx, m.Stats())
}

// Close reports leaked blocks and releases the backend if m created it.
// Blocks still live become invalid. Close is idempotent.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		m.logger.LogLeaks(context.Background(), m.Stats())
		if m.owned != nil {
			m.closeErr = m.owned.Close()
		}
	})
	return m.closeErr
}
