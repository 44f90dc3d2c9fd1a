// Package metrics exposes ceremony-outcome counters via Prometheus,
// scraped from GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CeremonyOutcomes counts each ceremony operation by leg and result.
	CeremonyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webauthnd",
		Name:      "ceremony_outcomes_total",
		Help:      "Count of ceremony operations by leg and outcome.",
	}, []string{"leg", "outcome"})

	// CeremonyDuration observes wall-clock latency of each ceremony leg.
	CeremonyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "webauthnd",
		Name:      "ceremony_duration_seconds",
		Help:      "Ceremony operation latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"leg"})
)

// Ceremony leg labels.
const (
	LegCreationChallenge = "creation_challenge"
	LegCreationResponse  = "creation_response"
	LegAssertionChallenge = "assertion_challenge"
	LegAssertionResponse = "assertion_response"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Observe records a ceremony leg's outcome and latency in one call.
func Observe(leg string, seconds float64, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	CeremonyOutcomes.WithLabelValues(leg, outcome).Inc()
	CeremonyDuration.WithLabelValues(leg).Observe(seconds)
}
