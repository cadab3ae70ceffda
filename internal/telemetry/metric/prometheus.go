package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "printlink"

// Registry holds all application metrics.
//
// The record methods are safe on a nil *Registry, so components can be
// built without metrics.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectTotal      *prometheus.CounterVec
	TeardownTotal     *prometheus.CounterVec
	TeardownStepError *prometheus.CounterVec

	// Send metrics
	SendTotal     *prometheus.CounterVec
	SendBytes     prometheus.Counter
	OperationTime *prometheus.HistogramVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ConnectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_total",
			Help:      "Connect attempts by result.",
		}, []string{"result"}),
		TeardownTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardown_total",
			Help:      "Connections torn down by reason.",
		}, []string{"reason"}),
		TeardownStepError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardown_step_errors_total",
			Help:      "Suppressed errors during teardown by step.",
		}, []string{"step"}),
		SendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_total",
			Help:      "Send attempts by result.",
		}, []string{"result"}),
		SendBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_bytes_total",
			Help:      "Bytes written to printers.",
		}),
		OperationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of printer operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests by protocol, method and status.",
		}, []string{"protocol", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request latency by protocol and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"protocol", "method"}),
	}

	reg.MustRegister(
		r.ConnectTotal,
		r.TeardownTotal,
		r.TeardownStepError,
		r.SendTotal,
		r.SendBytes,
		r.OperationTime,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds a custom collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// ============================================================================
// Printer Metrics
// ============================================================================

// RecordConnect counts a connect attempt. result is one of ok, timeout,
// error, invalid or rejected.
func (r *Registry) RecordConnect(result string) {
	if r == nil {
		return
	}
	r.ConnectTotal.WithLabelValues(result).Inc()
}

// RecordSend counts a send attempt and, on success, its bytes.
func (r *Registry) RecordSend(result string, bytes int) {
	if r == nil {
		return
	}
	r.SendTotal.WithLabelValues(result).Inc()
	if bytes > 0 {
		r.SendBytes.Add(float64(bytes))
	}
}

// RecordTeardown counts a torn down connection.
func (r *Registry) RecordTeardown(reason string) {
	if r == nil {
		return
	}
	r.TeardownTotal.WithLabelValues(reason).Inc()
}

// RecordTeardownStepError counts a suppressed shutdown/close error.
func (r *Registry) RecordTeardownStepError(step string) {
	if r == nil {
		return
	}
	r.TeardownStepError.WithLabelValues(step).Inc()
}

// ObserveOperation records the duration of a printer operation.
func (r *Registry) ObserveOperation(op string, seconds float64) {
	if r == nil {
		return
	}
	r.OperationTime.WithLabelValues(op).Observe(seconds)
}

// ============================================================================
// Request Metrics
// ============================================================================

// RecordRequest counts a served request.
func (r *Registry) RecordRequest(protocol, method, status string) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(protocol, method, status).Inc()
}

// ObserveRequestDuration records request latency.
func (r *Registry) ObserveRequestDuration(protocol, method string, seconds float64) {
	if r == nil {
		return
	}
	r.RequestDuration.WithLabelValues(protocol, method).Observe(seconds)
}
