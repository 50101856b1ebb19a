// Package iometrics holds the Prometheus collectors of filmdb.
// Collectors are registered on the default registry when the package
// is loaded and served by Handler.
package iometrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProviderRequests counts provider calls by provider and outcome
	// (success, failure, rejected).
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_provider_requests_total",
			Help: "Total number of calls to external providers",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmdb_provider_request_duration_seconds",
			Help:    "Duration of calls to external providers",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// CircuitBreakerState is 0 for closed, 1 for half-open, 2 for open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmdb_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"provider", "from", "to"},
	)

	// ReconcileOutcomes counts reconciliations by outcome
	// (hit, promoted, created, conflict).
	ReconcileOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_reconcile_outcomes_total",
			Help: "Total number of reconciled records by outcome",
		},
		[]string{"outcome"},
	)

	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_enrichment_failures_total",
			Help: "Total number of failed enrichment steps",
		},
		[]string{"step"},
	)

	GapFillRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_gap_fill_runs_total",
			Help: "Total number of search gap-fill runs by result",
		},
		[]string{"result"},
	)

	RankingRowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_ranking_rows_written_total",
			Help: "Total number of ranking snapshot rows written",
		},
		[]string{"region"},
	)

	WeeklyRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmdb_weekly_rows_written_total",
			Help: "Total number of weekly ranking rows upserted",
		},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_job_runs_total",
			Help: "Total number of scheduled job runs by job and status",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmdb_job_duration_seconds",
			Help:    "Duration of scheduled jobs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"job"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
