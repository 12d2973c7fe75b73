package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ModelMetrics tracks classifier loads. It satisfies ports.EngineMetrics.
type ModelMetrics struct {
	service string

	loadTotal    *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loaded       prometheus.Gauge
}

func NewModelMetrics(service string, registerer prometheus.Registerer) *ModelMetrics {
	loadTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Total model load attempts by status.",
		},
		[]string{"service", "status"},
	)
	loadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "load_duration_seconds",
			Help:      "Model load duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	loaded := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "loaded",
			Help:      "1 when a classifier is loaded and ready.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	if registerer != nil {
		registerer.MustRegister(loadTotal, loadDuration, loaded)
	}

	return &ModelMetrics{
		service:      service,
		loadTotal:    loadTotal,
		loadDuration: loadDuration,
		loaded:       loaded,
	}
}

func (m *ModelMetrics) ObserveModelLoad(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.loadTotal.WithLabelValues(m.service, status).Inc()
	m.loadDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
	if err == nil {
		m.loaded.Set(1)
	}
}
