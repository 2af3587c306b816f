package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "review_matcher"

// Upstream names used as the "upstream" label.
const (
	UpstreamReviews  = "reviews"
	UpstreamProducts = "products"
	UpstreamProfile  = "profile"
	UpstreamLLM      = "llm"
)

type Metrics struct {
	// Matching requests served, labelled by mode (attributes or ratings)
	MatchRequests *prometheus.CounterVec

	// Final matching percentage handed back to clients
	MatchPercentage prometheus.Histogram

	// Upstream calls that failed and were degraded to empty data
	UpstreamFailures *prometheus.CounterVec

	// Latency of summary completions, labelled by provider
	SummaryLatency *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg falls back to the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		MatchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Total number of matching percentage requests",
		}, []string{"mode"}),
		MatchPercentage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_percentage",
			Help:      "Distribution of final matching percentages",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		UpstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Upstream calls that failed and were replaced by empty data",
		}, []string{"upstream"}),
		SummaryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_latency_seconds",
			Help:      "Latency of review summary completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

// ObserveMatch records one match. Safe on a nil receiver.
func (m *Metrics) ObserveMatch(mode string, percentage int) {
	if m == nil {
		return
	}
	m.MatchRequests.WithLabelValues(mode).Inc()
	m.MatchPercentage.Observe(float64(percentage))
}

func (m *Metrics) UpstreamFailed(upstream string) {
	if m == nil {
		return
	}
	m.UpstreamFailures.WithLabelValues(upstream).Inc()
}

func (m *Metrics) ObserveSummary(provider string, started time.Time) {
	if m == nil {
		return
	}
	m.SummaryLatency.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}
