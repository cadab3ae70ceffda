package metric

import "github.com/prometheus/client_golang/prometheus"

// ConnectionSource reports the live connection count.
type ConnectionSource interface {
	Size() int
}

// Collector exports gauges read from the connection registry at scrape time.
type Collector struct {
	source ConnectionSource
	active *prometheus.Desc
}

// NewCollector creates a collector backed by source.
func NewCollector(source ConnectionSource) *Collector {
	return &Collector{
		source: source,
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "connections_active"),
			"Registered printer connections.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.active
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(c.source.Size()))
}
