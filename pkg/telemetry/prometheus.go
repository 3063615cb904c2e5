package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusPublisher mirrors telemetry events into Prometheus collectors.
// It owns its registry so several instances can coexist in tests.
type PrometheusPublisher struct {
	registry *prometheus.Registry

	refreshes      *prometheus.CounterVec
	refreshLatency *prometheus.HistogramVec
	autoRefresh    *prometheus.GaugeVec
	lastSuccess    *prometheus.GaugeVec
	alerts         prometheus.Counter
	errors         *prometheus.CounterVec
}

func NewPrometheusPublisher() *PrometheusPublisher {
	p := &PrometheusPublisher{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_refreshes_total",
				Help: "Refresh lifecycle events by screen and outcome",
			},
			[]string{"screen", "outcome"},
		),
		refreshLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_refresh_duration_seconds",
				Help:    "Latency of completed refreshes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"screen"},
		),
		autoRefresh: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_auto_refresh_enabled",
				Help: "1 when periodic refresh is on for the screen",
			},
			[]string{"screen"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_last_success_timestamp_seconds",
				Help: "Unix time of the last successful refresh",
			},
			[]string{"screen"},
		),
		alerts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_alerts_published_total",
				Help: "Device alerts published to the relay",
			},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_errors_total",
				Help: "Non-refresh errors by context",
			},
			[]string{"context", "severity"},
		),
	}

	p.registry.MustRegister(
		p.refreshes,
		p.refreshLatency,
		p.autoRefresh,
		p.lastSuccess,
		p.alerts,
		p.errors,
	)
	return p
}

// Registry exposes the collectors for an HTTP handler.
func (p *PrometheusPublisher) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusPublisher) Publish(event TelemetryEvent) {
	switch e := event.(type) {
	case RefreshIssued:
		p.refreshes.WithLabelValues(e.Screen, "issued").Inc()
	case RefreshSucceeded:
		p.refreshes.WithLabelValues(e.Screen, "succeeded").Inc()
		p.refreshLatency.WithLabelValues(e.Screen).Observe(e.Latency.Seconds())
		p.lastSuccess.WithLabelValues(e.Screen).Set(float64(e.Timestamp().Unix()))
	case RefreshFailed:
		p.refreshes.WithLabelValues(e.Screen, "failed").Inc()
		p.refreshLatency.WithLabelValues(e.Screen).Observe(e.Latency.Seconds())
	case RefreshDiscarded:
		p.refreshes.WithLabelValues(e.Screen, "discarded").Inc()
	case RefreshCoalesced:
		p.refreshes.WithLabelValues(e.Screen, "coalesced").Inc()
	case AutoRefreshChanged:
		v := 0.0
		if e.Enabled {
			v = 1
		}
		p.autoRefresh.WithLabelValues(e.Screen).Set(v)
	case AlertPublished:
		p.alerts.Inc()
	case DashboardError:
		p.errors.WithLabelValues(e.Context, e.Severity.String()).Inc()
	}
}
