package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the update workflow.
type Metrics struct {
	updatesTotal   *prometheus.CounterVec
	deltaFields    prometheus.Histogram
	upstreamErrors *prometheus.CounterVec
	guardReloads   *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		updatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vehicle_updates_total",
				Help: "Vehicle update requests by outcome",
			},
			[]string{"outcome"},
		),
		deltaFields: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vehicle_update_delta_fields",
				Help:    "Number of top-level fields sent in PATCH bodies",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vehicle_api_errors_total",
				Help: "Failed calls to the vehicle API by operation",
			},
			[]string{"operation"},
		),
		guardReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vehicle_guard_reloads_total",
				Help: "Guard rule pack reloads by status",
			},
			[]string{"status"},
		),
		registry: registry,
	}

	registry.MustRegister(m.updatesTotal, m.deltaFields, m.upstreamErrors, m.guardReloads)
	return m
}

func (m *Metrics) RecordUpdate(outcome string, fields int) {
	m.updatesTotal.WithLabelValues(outcome).Inc()
	if fields > 0 {
		m.deltaFields.Observe(float64(fields))
	}
}

func (m *Metrics) RecordUpstreamError(operation string) {
	m.upstreamErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordGuardReload(ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.guardReloads.WithLabelValues(status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
