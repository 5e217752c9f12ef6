package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics. HTTP request metrics live
// in the HTTP middleware.
type Metrics struct {
	// Posting metrics
	PostingsCommitted prometheus.Counter
	PostingErrors     *prometheus.CounterVec
	PostingDuration   prometheus.Histogram

	// Reconciliation metrics
	ReconciliationRuns       prometheus.Counter
	ReconciliationMismatches prometheus.Gauge
	EquationChecks           *prometheus.CounterVec

	// Balance metrics
	BalanceQueries prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PostingsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetbooks_postings_committed_total",
			Help: "Total number of posting requests that completed successfully",
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetbooks_posting_errors_total",
				Help: "Total number of failed postings by error kind",
			},
			[]string{"kind"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetbooks_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetbooks_reconciliation_runs_total",
			Help: "Total number of reconciliation runs",
		}),
		ReconciliationMismatches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fleetbooks_reconciliation_mismatches",
			Help: "Number of mismatches found by the most recent reconciliation run",
		}),
		EquationChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetbooks_equation_checks_total",
				Help: "Total accounting-equation checks by result",
			},
			[]string{"result"},
		),

		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetbooks_balance_queries_total",
			Help: "Total number of balance queries",
		}),
	}
}
