// Package metrics exposes the working set as prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "calorietracker"

type Metrics struct {
	Registry      *prometheus.Registry
	Records       prometheus.Gauge
	TotalCalories prometheus.Gauge
	Mutations     *prometheus.CounterVec
}

// New registers the collectors on a dedicated registry, so several instances
// (one per test) do not collide.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of records in the working set.",
		}),
		TotalCalories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_calories",
			Help:      "Sum of the calories of every record.",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Persisted mutations by operation.",
		}, []string{"op"}),
	}

	m.Registry.MustRegister(
		m.Records,
		m.TotalCalories,
		m.Mutations,
		collectors.NewGoCollector(),
	)

	return m
}

// Observe records one mutation and the resulting working set size.
func (m *Metrics) Observe(op string, records, totalCalories int) {
	if op != "" {
		m.Mutations.WithLabelValues(op).Inc()
	}
	m.Records.Set(float64(records))
	m.TotalCalories.Set(float64(totalCalories))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
