package verify

import (
	"time"

	"github.com/gomlx/actcheck/backends"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomePass is the outcome label of trials that passed. Failed trials use the FailureKind name.
const OutcomePass = "pass"

// Stats counts the trials run by a Verifier, by function and outcome, and their duration.
//
// It is only informative, the verifier never reads it back.
type Stats struct {
	// Trials is a counter with labels "fn" and "outcome".
	Trials *prometheus.CounterVec

	// Duration is a histogram of the duration of trials in seconds, with label "fn".
	Duration *prometheus.HistogramVec
}

// NewStats creates the trial metrics and registers them with registerer, if it is not nil.
func NewStats(registerer prometheus.Registerer) *Stats {
	factory := promauto.With(registerer)
	return &Stats{
		Trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "actcheck_trials_total",
			Help: "Total number of verification trials, by function and outcome",
		}, []string{"fn", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actcheck_trial_duration_seconds",
			Help:    "Histogram of the duration of verification trials",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"fn"}),
	}
}

// Observe records one trial.
func (s *Stats) Observe(fn backends.FnName, outcome string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.Trials.WithLabelValues(fn.String(), outcome).Inc()
	s.Duration.WithLabelValues(fn.String()).Observe(elapsed.Seconds())
}
