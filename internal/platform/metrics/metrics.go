// Package metrics registers the Prometheus instruments shared by the action
// services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	VerdictsTotal   *prometheus.CounterVec
	CooldownDenials *prometheus.CounterVec
	LifetimeCapHits prometheus.Counter
	VerifierLatency prometheus.Histogram
	SMSSent         prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VerdictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_verdicts_total",
			Help: "Terminal verdicts by action and outcome",
		}, []string{"action", "outcome"}),
		CooldownDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_cooldown_denials_total",
			Help: "Requests denied by cooldown or daily cap, by action",
		}, []string{"action"}),
		LifetimeCapHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudguard_lifetime_cap_hits_total",
			Help: "Requests denied by the non-resettable lifetime side-effect cap",
		}),
		VerifierLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudguard_verifier_latency_seconds",
			Help:    "Latency of identity verification calls",
			Buckets: prometheus.DefBuckets,
		}),
		SMSSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudguard_sms_sent_total",
			Help: "Verification SMS messages actually dispatched",
		}),
	}
}

// ObserveVerdict records a terminal verdict.
func (m *Metrics) ObserveVerdict(action, outcome string) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveCooldownDenial records a cooldown or cap denial.
func (m *Metrics) ObserveCooldownDenial(action string) {
	if m == nil {
		return
	}
	m.CooldownDenials.WithLabelValues(action).Inc()
}

// ObserveVerifierLatency records one verification call duration.
func (m *Metrics) ObserveVerifierLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.VerifierLatency.Observe(d.Seconds())
}
