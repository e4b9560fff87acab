package wallet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordTransaction(string, decimal.Decimal)     {}
func (n *NoopMetricsCollector) RecordConflictRetry(string)                    {}

// PrometheusMetrics exports wallet metrics under the "wallet" namespace.
type PrometheusMetrics struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	errors            *prometheus.CounterVec
	transactionAmount *prometheus.CounterVec
	transactions      *prometheus.CounterVec
	conflictRetries   *prometheus.CounterVec
}

// NewPrometheusMetrics registers the collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		operationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wallet",
				Name:      "operation_duration_seconds",
				Help:      "Duration of wallet operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Name:      "operations_total",
				Help:      "Wallet operations partitioned by result.",
			},
			[]string{"operation", "result"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups partitioned by key and outcome.",
			},
			[]string{"key", "outcome"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Name:      "errors_total",
				Help:      "Failed wallet operations partitioned by error kind.",
			},
			[]string{"operation", "kind"},
		),
		transactionAmount: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Subsystem: "ledger",
				Name:      "amount_total",
				Help:      "Sum of moved amounts partitioned by category.",
			},
			[]string{"category"},
		),
		transactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Subsystem: "ledger",
				Name:      "transactions_total",
				Help:      "Committed ledger operations partitioned by category.",
			},
			[]string{"category"},
		),
		conflictRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Name:      "conflict_retries_total",
				Help:      "Optimistic-concurrency retries partitioned by operation.",
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) RecordOperationDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordOperationResult(operation, result string) {
	m.operationResults.WithLabelValues(operation, result).Inc()
}

func (m *PrometheusMetrics) RecordCacheHit(key string) {
	m.cacheLookups.WithLabelValues(key, "hit").Inc()
}

func (m *PrometheusMetrics) RecordCacheMiss(key string) {
	m.cacheLookups.WithLabelValues(key, "miss").Inc()
}

func (m *PrometheusMetrics) RecordError(operation, errType string) {
	m.errors.WithLabelValues(operation, errType).Inc()
}

func (m *PrometheusMetrics) RecordTransaction(category string, amount decimal.Decimal) {
	m.transactions.WithLabelValues(category).Inc()
	m.transactionAmount.WithLabelValues(category).Add(amount.Abs().InexactFloat64())
}

func (m *PrometheusMetrics) RecordConflictRetry(operation string) {
	m.conflictRetries.WithLabelValues(operation).Inc()
}
