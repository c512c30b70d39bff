package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eva-framework/internal/domain/screening"
)

// Recorder implements the usecase Observer on a private prometheus registry.
type Recorder struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	points    *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eva_gate_decisions_total",
			Help: "Gate decisions by decision and bottleneck.",
		}, []string{"decision", "bottleneck"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eva_discussion_points_total",
			Help: "Discussion point batches by source.",
		}, []string{"source"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eva_evaluation_duration_seconds",
			Help:    "Wall time of one evaluation, including discussion points.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(
		r.decisions, r.points, r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveEvaluation(decision screening.Decision, bottleneck screening.Bottleneck, source string, elapsed time.Duration) {
	b := string(bottleneck)
	if b == "" {
		b = "none"
	}
	r.decisions.WithLabelValues(string(decision), b).Inc()
	r.points.WithLabelValues(source).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
