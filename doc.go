// Package memcore is a memory and synchronization substrate: an allocation
// service over raw memory with usage accounting, and a cache-line sized spin
// lock.
//
// # Quick Start
//
//	cfg, err := memcore.ConfigFromEnv(memcore.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	mem, err := memcore.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer mem.Close()
//
//	p, err := mem.Alloc(4096, false)
//	if err != nil {
//		return err
//	}
//	defer mem.Free(p, false)
//
// # Packages
//
//   - memory: the Allocator, aligned blocks and typed arrays.
//   - spinlock: the SpinLock.
//   - backend: platform allocators (System, Runtime, Pages, Tiered).
//   - metrics: Prometheus export of allocator counters.
//
// # Configuration
//
// Config is read from YAML with LoadConfig and overlaid from the
// environment with ConfigFromEnv:
//
//	backend: tiered          # system | runtime | pages | tiered
//	tracking: true
//	memory_limit: 512MiB     # implies tracking
//	large_threshold: 1MiB    # tiered only
//	log_level: info
//	log_format: json         # text | json | none
//
// # Observability
//
// Failures are logged through slog, throttled per allocator. Counters are
// available from Allocator.Stats, via a MetricsCollector passed with
// memory.WithMetrics, or as Prometheus gauges from metrics.NewCollector.
package memcore
