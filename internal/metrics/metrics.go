// Package metrics holds the Prometheus instruments of the extraction pipelines.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

// Metrics is registered on its own registry so several instances (tests,
// CLI runs) never collide on the default one.
//
//   - findoc_extractions_total{format,status}
//   - findoc_extraction_duration_seconds{format}
//   - findoc_fields_resolved_total{format,field}
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	FieldsResolved     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findoc_extractions_total",
				Help: "Total number of extractions by input format and outcome",
			},
			[]string{"format", "status"},
		),
		ExtractionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findoc_extraction_duration_seconds",
				Help:    "Duration of one extraction in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"format"},
		),
		FieldsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findoc_fields_resolved_total",
				Help: "Total number of fields resolved to a value",
			},
			[]string{"format", "field"},
		),
	}
}

// Observe records one finished extraction. fs may be nil on failure.
func (m *Metrics) Observe(format constants.Format, status constants.Status, elapsed time.Duration, fs *entity.FieldSet) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(string(format), string(status)).Inc()
	m.ExtractionDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
	if fs == nil {
		return
	}
	for _, f := range fs.Fields() {
		if fs.IsSet(f) {
			m.FieldsResolved.WithLabelValues(string(format), string(f)).Inc()
		}
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
