package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/memcore/memory"
)

const subsystem = "memory"

var (
	_ memory.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector    = (*Collector)(nil)
)

// Collector counts allocation events and exports allocator gauges.
type Collector struct {
	allocator atomic.Pointer[memory.Allocator]

	allocs     *prometheus.CounterVec
	reallocs   *prometheus.CounterVec
	frees      prometheus.Counter
	allocBytes prometheus.Counter
	freedBytes prometheus.Counter

	current   *prometheus.Desc
	peak      *prometheus.Desc
	blocks    *prometheus.Desc
	limit     *prometheus.Desc
	limitUsed *prometheus.Desc
	limitPeak *prometheus.Desc
	denied    *prometheus.Desc
	available *prometheus.Desc
}

// NewCollector creates a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	fqName := func(name string) string {
		return prometheus.BuildFQName(namespace, subsystem, name)
	}

	return &Collector{
		allocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocations_total",
			Help:      "Allocation requests by result.",
		}, []string{"result"}),
		reallocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reallocations_total",
			Help:      "Reallocation requests by result.",
		}, []string{"result"}),
		frees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frees_total",
			Help:      "Blocks released.",
		}),
		allocBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocated_bytes_total",
			Help:      "Bytes requested by successful allocations.",
		}),
		freedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "freed_bytes_total",
			Help:      "Bytes released by frees of sized blocks.",
		}),

		current:   prometheus.NewDesc(fqName("current_bytes"), "Live requested bytes.", nil, nil),
		peak:      prometheus.NewDesc(fqName("peak_bytes"), "Highest live requested bytes.", nil, nil),
		blocks:    prometheus.NewDesc(fqName("live_blocks"), "Blocks allocated and not yet freed.", nil, nil),
		limit:     prometheus.NewDesc(fqName("limit_bytes"), "Configured memory limit, 0 if unlimited.", nil, nil),
		limitUsed: prometheus.NewDesc(fqName("limit_used_bytes"), "Bytes held against the memory limit.", nil, nil),
		limitPeak: prometheus.NewDesc(fqName("limit_peak_bytes"), "Highest bytes held against the memory limit.", nil, nil),
		denied:    prometheus.NewDesc(fqName("denied_total"), "Requests rejected by the memory limit.", nil, nil),
		available: prometheus.NewDesc(fqName("available_bytes"), "Physical memory available to the process.", nil, nil),
	}
}

// Observe attaches the allocator whose counters are exported as gauges.
// Passing nil detaches it.
func (c *Collector) Observe(a *memory.Allocator) {
	c.allocator.Store(a)
}

// RecordAlloc implements memory.MetricsCollector.
func (c *Collector) RecordAlloc(bytes int, err error) {
	c.allocs.WithLabelValues(result(err)).Inc()
	if err == nil {
		c.allocBytes.Add(float64(bytes))
	}
}

// RecordRealloc implements memory.MetricsCollector.
func (c *Collector) RecordRealloc(_, _ int, err error) {
	c.reallocs.WithLabelValues(result(err)).Inc()
}

// RecordFree implements memory.MetricsCollector.
func (c *Collector) RecordFree(bytes int) {
	c.frees.Inc()
	c.freedBytes.Add(float64(bytes))
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.allocs.Describe(ch)
	c.reallocs.Describe(ch)
	c.frees.Describe(ch)
	c.allocBytes.Describe(ch)
	c.freedBytes.Describe(ch)

	ch <- c.current
	ch <- c.peak
	ch <- c.blocks
	ch <- c.limit
	ch <- c.limitUsed
	ch <- c.limitPeak
	ch <- c.denied
	ch <- c.available
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.allocs.Collect(ch)
	c.reallocs.Collect(ch)
	c.frees.Collect(ch)
	c.allocBytes.Collect(ch)
	c.freedBytes.Collect(ch)

	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(memory.Available()))

	a := c.allocator.Load()
	if a == nil {
		return
	}
	s := a.Stats()
	ch <- prometheus.MustNewConstMetric(c.current, prometheus.GaugeValue, float64(s.CurrentBytes))
	ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(s.PeakBytes))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(s.AllocCount))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(s.LimitBytes))
	ch <- prometheus.MustNewConstMetric(c.limitUsed, prometheus.GaugeValue, float64(s.LimitUsed))
	ch <- prometheus.MustNewConstMetric(c.limitPeak, prometheus.GaugeValue, float64(s.LimitPeak))
	ch <- prometheus.MustNewConstMetric(c.denied, prometheus.CounterValue, float64(s.Denied))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
