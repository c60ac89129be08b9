// Package metrics tracks recommendation outcomes and latency.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jackzampolin/assessor/internal/recommend"
)

const namespace = "assessor"

// Recorder exports outcome metrics to Prometheus and keeps a running summary.
// It implements recommend.Observer.
type Recorder struct {
	registry *prometheus.Registry

	recommendations *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	resultSize      prometheus.Histogram

	mu      sync.Mutex
	summary Summary
}

// NewRecorder creates a recorder with its own Prometheus registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by result path (model, fallback)",
		}, []string{"path"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Fallback recommendations by reason",
		}, []string{"reason"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time to produce a recommendation result",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"path"}),
		resultSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_result_size",
			Help:      "Number of recommendations returned per request",
			Buckets:   []float64{1, 2, 3, 5, 10, 20},
		}),
		summary: Summary{Reasons: map[string]int64{}},
	}
}

// Observe records one outcome.
func (r *Recorder) Observe(o recommend.Outcome, elapsed time.Duration) {
	path := string(o.Path)
	r.recommendations.WithLabelValues(path).Inc()
	r.duration.WithLabelValues(path).Observe(elapsed.Seconds())
	r.resultSize.Observe(float64(len(o.Result.Recommendations)))
	if o.Fallback() {
		r.fallbacks.WithLabelValues(string(o.Reason)).Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.add(o, elapsed)
}

// Handler serves the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Summary returns a snapshot of the running totals.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary.clone()
}

// Verify interface
var _ recommend.Observer = (*Recorder)(nil)
