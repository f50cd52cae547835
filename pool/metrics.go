// File: pool/metrics.go
// License: Apache-2.0

package pool

import "github.com/prometheus/client_golang/prometheus"

// Collector exports arena occupancy as prometheus gauges. Register it on
// whatever registry the embedding process uses; the arena itself carries no
// metrics dependency on its hot path.
type Collector struct {
	arena *Arena

	allocated *prometheus.Desc
	used      *prometheus.Desc
	waiters   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector over a.
func NewCollector(a *Arena) *Collector {
	return &Collector{
		arena: a,
		allocated: prometheus.NewDesc("conduit_pool_buffers_allocated",
			"Ring buffers materialized by the arena.", nil, nil),
		used: prometheus.NewDesc("conduit_pool_buffers_used",
			"Ring buffers currently handed out.", nil, nil),
		waiters: prometheus.NewDesc("conduit_pool_waiters",
			"Objects queued waiting for a buffer.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.used
	ch <- c.waiters
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.GaugeValue, float64(c.arena.Allocated()))
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(c.arena.Used()))
	ch <- prometheus.MustNewConstMetric(c.waiters, prometheus.GaugeValue, float64(c.arena.WaitQueue().Len()))
}
