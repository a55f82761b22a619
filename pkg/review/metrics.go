package review

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the review engine. All methods are safe on a nil
// receiver so the engine works without a registry.
type Metrics struct {
	submissions *prometheus.CounterVec
	completions *prometheus.CounterVec
	queueDepth  prometheus.Gauge
	active      prometheus.Gauge
	duration    prometheus.Histogram
	score       prometheus.Histogram
}

// NewMetrics registers the review metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "submissions_total",
			Help:      "Review requests accepted, by priority.",
		}, []string{"priority"}),
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "completions_total",
			Help:      "Reviews reaching a terminal state, by status.",
		}, []string{"status"}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "queue_depth",
			Help:      "Requests currently waiting in the priority queue.",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "active_reviews",
			Help:      "Reviews currently being processed.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "processing_seconds",
			Help:      "Wall-clock review processing time.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		score: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "veritas",
			Subsystem: "review",
			Name:      "overall_score",
			Help:      "Overall compliance score of finished reviews.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}
}

func (m *Metrics) ReviewSubmitted(priority string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(priority).Inc()
}

func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

func (m *Metrics) ReviewStarted() {
	if m == nil {
		return
	}
	m.active.Inc()
}

func (m *Metrics) ReviewFinished(status string, seconds float64) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.completions.WithLabelValues(status).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.score.Observe(score)
}
