package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "gateway"
	metricsSubsystem = "proxy"
)

// proxyMetrics contains Prometheus metrics for proxy operations.
type proxyMetrics struct {
	requestsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
}

// newProxyMetrics creates the proxy collectors and registers them with
// registerer. A nil registerer leaves them unregistered.
func newProxyMetrics(registerer prometheus.Registerer) *proxyMetrics {
	factory := promauto.With(registerer)
	return &proxyMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of requests forwarded upstream",
			},
			[]string{"route", "status"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of forwarded requests",
				Buckets: []float64{
					.001, .005, .01, .025,
					.05, .1, .25, .5,
					1, 2.5, 5, 10, 30,
				},
			},
			[]string{"route"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "errors_total",
				Help:      "Total number of proxy errors",
			},
			[]string{"route", "error_type"},
		),
	}
}

// initRouteLabels pre-populates the per-route series with zero values so
// they appear in /metrics before the first request.
func (m *proxyMetrics) initRouteLabels(routes []string) {
	for _, route := range routes {
		m.upstreamDuration.WithLabelValues(route)
		for _, et := range []string{errorTypeUnreachable, errorTypeTimeout, errorTypeClientCanceled} {
			m.errorsTotal.WithLabelValues(route, et)
		}
	}
}
