package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the adapter's instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	Turns      *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Locations  *prometheus.CounterVec
	Completed  *prometheus.CounterVec
}

// NewMetrics creates and registers the adapter's collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "percurso_turns_total",
			Help: "Accepted conversation turns per flow.",
		}, []string{"flow"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "percurso_rejections_total",
			Help: "Validation rejections per flow.",
		}, []string{"flow"}),
		Locations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "percurso_location_results_total",
			Help: "Settled location acquisitions per final permission.",
		}, []string{"flow", "permission"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "percurso_flows_completed_total",
			Help: "Flow runs that reached the terminal step.",
		}, []string{"flow"}),
	}

	reg.MustRegister(
		m.Turns,
		m.Rejections,
		m.Locations,
		m.Completed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
