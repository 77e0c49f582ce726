package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the resolution module.
type Metrics struct {
	// Resolution outcomes by disclosure source
	Outcomes *prometheus.CounterVec

	// Per-tier store lookup latencies
	TierLatency *prometheus.HistogramVec

	// Overall resolve latency including the audit write
	ResolveLatency prometheus.Histogram

	// Store failures that were degraded into fall-through, by tier.
	// Tier-1/2 failures are invisible in the returned value; this counter
	// is how an outage shows up.
	StoreErrors *prometheus.CounterVec

	// Audit writes that failed (best-effort contract, logged only)
	AuditFailures prometheus.Counter
}

// New creates a Metrics instance with all resolution metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moniker_resolution_outcomes_total",
			Help: "Total resolution outcomes by disclosure source",
		}, []string{"source"}),

		TierLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moniker_resolution_tier_duration_seconds",
			Help:    "Duration of store lookups by resolver tier",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"tier"}), // tier: "consent", "context", "fallback"

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moniker_resolution_resolve_duration_seconds",
			Help:    "Duration of full resolution including the audit write",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moniker_resolution_store_errors_total",
			Help: "Store failures degraded into tier fall-through, by tier",
		}, []string{"tier"}),

		AuditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moniker_resolution_audit_failures_total",
			Help: "Audit writes that failed and were swallowed",
		}),
	}
}

// IncOutcome records a resolution outcome.
func (m *Metrics) IncOutcome(source string) {
	if m != nil {
		m.Outcomes.WithLabelValues(source).Inc()
	}
}

// ObserveTierLatency records the duration of one tier's store lookup.
func (m *Metrics) ObserveTierLatency(tier string, d time.Duration) {
	if m != nil {
		m.TierLatency.WithLabelValues(tier).Observe(d.Seconds())
	}
}

// ObserveResolveLatency records the total resolve duration.
func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

// IncStoreError records a degraded store failure for a tier.
func (m *Metrics) IncStoreError(tier string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(tier).Inc()
	}
}

// IncAuditFailure records a swallowed audit failure.
func (m *Metrics) IncAuditFailure() {
	if m != nil {
		m.AuditFailures.Inc()
	}
}
