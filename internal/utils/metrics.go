package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	registry *prometheus.Registry

	requestCount     *prometheus.CounterVec
	errorCount       *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	toggles          *prometheus.CounterVec

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videotube",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videotube",
			Name:      "errors_total",
			Help:      "Failed operations by error code.",
		}, []string{"code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "videotube",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		operationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "videotube",
			Name:      "operation_duration_seconds",
			Help:      "Latency of actor operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videotube",
			Name:      "toggles_total",
			Help:      "Relation toggles by kind, target and resulting state.",
		}, []string{"kind", "target", "state"}),
		systemStartTime: time.Now(),
	}

	mc.registry.MustRegister(
		mc.requestCount,
		mc.errorCount,
		mc.requestLatency,
		mc.operationLatency,
		mc.toggles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return mc
}

func (mc *MetricsCollector) IncrementRequests(method, route string, status int, duration time.Duration) {
	mc.requestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	mc.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (mc *MetricsCollector) IncrementErrors(code string) {
	mc.errorCount.WithLabelValues(code).Inc()
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.operationLatency.WithLabelValues(operationName).Observe(duration.Seconds())
}

func (mc *MetricsCollector) RecordToggle(kind, target, state string) {
	mc.toggles.WithLabelValues(kind, target, state).Inc()
}

func (mc *MetricsCollector) Uptime() time.Duration {
	return time.Since(mc.systemStartTime)
}

// Handler exposes the collector's registry in the Prometheus text format.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests that gather metric families directly.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}
