package infra

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors exported by the API.
type Metrics struct {
	Registry         *prometheus.Registry
	UploadsTotal     prometheus.Counter
	GenerationsTotal *prometheus.CounterVec
	DownloadsTotal   prometheus.Counter
}

// NewMetrics builds and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "headshot_uploads_total",
			Help: "Accepted photo uploads.",
		}),
		GenerationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "headshot_generations_total",
			Help: "Generation attempts by outcome.",
		}, []string{"outcome"}),
		DownloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "headshot_downloads_total",
			Help: "Result downloads served.",
		}),
	}

	registry.MustRegister(m.UploadsTotal, m.GenerationsTotal, m.DownloadsTotal)
	return m
}
