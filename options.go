package memcore

import (
	"golang.org/x/time/rate"

	"github.com/hupe1980/memcore/memory"
)

type options struct {
	logger       *Logger
	metrics      MetricsCollector
	backend      memory.Backend
	failureRate  rate.Limit
	failureBurst int
}

// Option configures New.
type Option func(*options)

// WithLogger overrides the logger built from Config.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the collector notified of every allocation event.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithBackend overrides Config.Backend with a caller-owned backend.
// Close does not close it.
func WithBackend(b memory.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithFailureLogRate throttles failure logging, see memory.WithFailureLogRate.
func WithFailureLogRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.failureRate = r
		o.failureBurst = burst
	}
}
