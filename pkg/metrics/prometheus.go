package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysesTotal  *prometheus.CounterVec
	moduleDuration *prometheus.HistogramVec
	moduleFailures *prometheus.CounterVec
	verdictsTotal  *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rugscan_analyses_total",
				Help: "Total number of completed analyses",
			},
			[]string{"chain", "risk_level"},
		),
		moduleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rugscan_module_duration_seconds",
				Help:    "Duration of analysis module runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"module"},
		),
		moduleFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rugscan_module_failures_total",
				Help: "Total number of module failures, timeouts and panics",
			},
			[]string{"module"},
		),
		verdictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rugscan_honeypot_verdicts_total",
				Help: "Total honeypot simulation verdicts by class",
			},
			[]string{"verdict"},
		),
		cacheRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rugscan_cache_requests_total",
				Help: "Analysis cache lookups by result",
			},
			[]string{"result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rugscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordAnalysis records one completed analysis.
func (r *Recorder) RecordAnalysis(chain, riskLevel string) {
	r.analysesTotal.WithLabelValues(chain, riskLevel).Inc()
}

// RecordModuleDuration records a module run duration in seconds.
func (r *Recorder) RecordModuleDuration(module string, seconds float64) {
	r.moduleDuration.WithLabelValues(module).Observe(seconds)
}

// RecordModuleFailure records a module failure occurrence.
func (r *Recorder) RecordModuleFailure(module string) {
	r.moduleFailures.WithLabelValues(module).Inc()
}

// RecordVerdict records a honeypot simulation verdict.
func (r *Recorder) RecordVerdict(verdict string) {
	r.verdictsTotal.WithLabelValues(verdict).Inc()
}

// RecordCacheHit records an analysis cache lookup result.
func (r *Recorder) RecordCacheHit(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheRequests.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
