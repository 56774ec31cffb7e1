package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	answers      *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	newsSearches *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finassist_answers_total",
				Help: "Answers produced, by path (generated or fallback) and outcome",
			},
			[]string{"path", "outcome"},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finassist_symbol_resolutions_total",
				Help: "Symbol resolutions by the layer that answered",
			},
			[]string{"layer"},
		),
		newsSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finassist_news_searches_total",
				Help: "Per-symbol news searches by success",
			},
			[]string{"success"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finassist_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finassist_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnswer records one pipeline answer.
func (r *Recorder) RecordAnswer(path, outcome string) {
	r.answers.WithLabelValues(path, outcome).Inc()
}

// RecordResolution records which lookup layer resolved an entity.
func (r *Recorder) RecordResolution(layer string) {
	r.resolutions.WithLabelValues(layer).Inc()
}

// RecordNewsSearch records one per-symbol news search.
func (r *Recorder) RecordNewsSearch(ok bool) {
	r.newsSearches.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
