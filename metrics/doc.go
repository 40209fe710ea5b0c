// Package metrics exports allocator activity to Prometheus.
//
// A Collector is both a memory.MetricsCollector, counting allocation events,
// and a prometheus.Collector. Once an Allocator is attached with Observe,
// its usage counters are exported as gauges at scrape time.
//
//	c := metrics.NewCollector("myapp")
//	alloc := memory.New(memory.WithTracking(true), memory.WithMetrics(c))
//	c.Observe(alloc)
//	prometheus.MustRegister(c)
package metrics
