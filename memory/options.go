package memory

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/memcore/backend"
)

type options struct {
	backend      backend.Heap
	tracking     bool
	memoryLimit  int64
	logger       *slog.Logger
	failureRate  rate.Limit
	failureBurst int
	metrics      MetricsCollector
}

func defaultOptions() options {
	return options{
		failureRate:  rate.Every(time.Second),
		failureBurst: 5,
	}
}

// Option configures an Allocator.
type Option func(*options)

// WithBackend sets the platform allocator. If nil is passed,
// backend.NewSystem() is used.
func WithBackend(h backend.Heap) Option {
	return func(o *options) {
		o.backend = h
	}
}

// WithTracking enables current and peak byte accounting. Every block then
// carries a size header, the analogue of a debug build.
func WithTracking(enabled bool) Option {
	return func(o *options) {
		o.tracking = enabled
	}
}

// WithMemoryLimit caps the bytes that may be live at once. Requests beyond
// the cap fail with ErrOutOfMemory wrapping ErrMemoryLimitExceeded.
// A positive limit implies WithTracking(true); 0 disables the cap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFailureLogRate throttles failure logging to r events per second with
// the given burst. Failures beyond the rate still reach the metrics
// collector.
func WithFailureLogRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.failureRate = r
		o.failureBurst = burst
	}
}

// WithMetrics sets the collector notified of every allocation event.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}
