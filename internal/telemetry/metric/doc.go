// Package metric provides Prometheus metrics for printlink.
//
//   - prometheus.go: registry, HTTP handler and record helpers
//   - collector.go: scrape-time gauges read from the connection registry
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
