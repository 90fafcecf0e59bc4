package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the lending ledger.
type Metrics struct {
	// Payment metrics
	PaymentsRecorded *prometheus.CounterVec
	PaymentAmount    prometheus.Histogram
	PaymentErrors    *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationsRun      prometheus.Counter
	ReconciliationDuration  prometheus.Histogram
	ReconciliationFailures  prometheus.Counter
	CollectionsRecalculated prometheus.Counter

	// Loan metrics
	LoansCreated prometheus.Counter
	LoansClosed  prometheus.Counter

	// Ledger metrics
	LedgerQueries   prometheus.Counter
	LedgerCacheHits prometheus.Counter
}

// New creates and registers all Prometheus metrics. Call once per process;
// promauto registers against the default registry.
func New() *Metrics {
	return &Metrics{
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lendbook_payments_recorded_total",
				Help: "Total number of collections recorded by type",
			},
			[]string{"collection_type", "mode"},
		),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lendbook_payment_amount",
			Help:    "Collection amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		PaymentErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lendbook_payment_errors_total",
				Help: "Total number of rejected payments by reason",
			},
			[]string{"reason"},
		),

		ReconciliationsRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_reconciliations_total",
			Help: "Total number of history reconciliations run",
		}),
		ReconciliationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lendbook_reconciliation_duration_seconds",
			Help:    "Duration of history reconciliations",
			Buckets: prometheus.DefBuckets,
		}),
		ReconciliationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_reconciliation_failures_total",
			Help: "Total number of reconciliations that failed to persist",
		}),
		CollectionsRecalculated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_collections_recalculated_total",
			Help: "Total number of collection splits rewritten by replay",
		}),

		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_loans_closed_total",
			Help: "Total number of loans settled",
		}),

		LedgerQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_ledger_queries_total",
			Help: "Total number of party ledger queries",
		}),
		LedgerCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendbook_ledger_cache_hits_total",
			Help: "Total number of ledger queries served from cache",
		}),
	}
}

// RecordPayment counts one accepted collection. Nil-safe so use cases can
// run without metrics in tests.
func (m *Metrics) RecordPayment(collectionType, mode string, amount float64) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(collectionType, mode).Inc()
	m.PaymentAmount.Observe(amount)
}

// RecordPaymentError counts one rejected payment.
func (m *Metrics) RecordPaymentError(reason string) {
	if m == nil {
		return
	}
	m.PaymentErrors.WithLabelValues(reason).Inc()
}

// RecordReconciliation counts one completed replay over n collections.
func (m *Metrics) RecordReconciliation(seconds float64, n int, failed bool) {
	if m == nil {
		return
	}
	m.ReconciliationsRun.Inc()
	m.ReconciliationDuration.Observe(seconds)
	m.CollectionsRecalculated.Add(float64(n))
	if failed {
		m.ReconciliationFailures.Inc()
	}
}

// RecordLoanCreated counts one new loan.
func (m *Metrics) RecordLoanCreated() {
	if m == nil {
		return
	}
	m.LoansCreated.Inc()
}

// RecordLoanClosed counts one settled loan.
func (m *Metrics) RecordLoanClosed() {
	if m == nil {
		return
	}
	m.LoansClosed.Inc()
}

// RecordLedgerQuery counts one ledger lookup.
func (m *Metrics) RecordLedgerQuery(cacheHit bool) {
	if m == nil {
		return
	}
	m.LedgerQueries.Inc()
	if cacheHit {
		m.LedgerCacheHits.Inc()
	}
}
