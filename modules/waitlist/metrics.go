package waitlist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	factory promauto.Factory

	SubmissionsTotal     *prometheus.CounterVec
	SinkRequestDuration  *prometheus.HistogramVec
	AssumedDeliveries    prometheus.Counter
	LimiterStoreFailures prometheus.Counter
}

// NewMetrics registers the waitlist collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		factory: factory,
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_submissions_total",
			Help: "Total number of waitlist submissions by user type and outcome category",
		}, []string{"user_type", "category"}),
		SinkRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waitlist_sink_request_duration_seconds",
			Help:    "Duration of outbound sink requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"category"}),
		AssumedDeliveries: factory.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_sink_assumed_deliveries_total",
			Help: "Total number of unclassified sink errors reported as delivered",
		}),
		LimiterStoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_ratelimit_store_failures_total",
			Help: "Total number of rate limit checks skipped because the store was unavailable",
		}),
	}
}

// WatchTrackedIdentifiers exposes count() as a gauge of identifiers held by
// the rate limiter.
func (m *Metrics) WatchTrackedIdentifiers(count func() int) {
	if m == nil || count == nil {
		return
	}
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "waitlist_ratelimit_tracked_identifiers",
		Help: "Current number of identifiers with attempts in the rate limit store",
	}, func() float64 { return float64(count()) })
}

func (m *Metrics) ObserveSubmission(userType UserType, category Category) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(userType.String(), category.String()).Inc()
}

func (m *Metrics) ObserveSinkRequest(category Category, d time.Duration) {
	if m == nil {
		return
	}
	m.SinkRequestDuration.WithLabelValues(category.String()).Observe(d.Seconds())
}

func (m *Metrics) IncrementAssumedDeliveries() {
	if m == nil {
		return
	}
	m.AssumedDeliveries.Inc()
}

func (m *Metrics) IncrementLimiterStoreFailures() {
	if m == nil {
		return
	}
	m.LimiterStoreFailures.Inc()
}
