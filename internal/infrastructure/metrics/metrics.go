package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Credit ledger metrics
	CreditsAssigned prometheus.Counter
	CreditsRevoked  prometheus.Counter
	CreditAmount    prometheus.Histogram
	CreditErrors    *prometheus.CounterVec

	// Label metrics
	LabelsPurchased prometheus.Counter
	LabelsRefunded  prometheus.Counter
	LabelCost       prometheus.Histogram
	LabelErrors     *prometheus.CounterVec

	// Provider metrics
	ProviderCalls         *prometheus.CounterVec
	ProviderDuration      *prometheus.HistogramVec
	ProviderInconsistency prometheus.Counter

	// Account metrics
	AccountsCreated *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors      *prometheus.CounterVec
	DBConnections prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Reconciliation metrics
	ReconciliationDrift *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CreditsAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_credits_assigned_total",
			Help: "Total number of credit assignments",
		}),
		CreditsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_credits_revoked_total",
			Help: "Total number of credit revocations",
		}),
		CreditAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelpay_credit_amount",
			Help:    "Credit transfer amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		CreditErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_credit_errors_total",
				Help: "Total number of credit transfer errors by type",
			},
			[]string{"error_type"},
		),

		LabelsPurchased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_labels_purchased_total",
			Help: "Total number of labels purchased",
		}),
		LabelsRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_labels_refunded_total",
			Help: "Total number of labels refunded",
		}),
		LabelCost: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelpay_label_cost",
			Help:    "Label costs in credits",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		LabelErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_label_errors_total",
				Help: "Total number of label operation errors by type",
			},
			[]string{"error_type"},
		),

		ProviderCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_provider_calls_total",
				Help: "Total shipping provider API calls",
			},
			[]string{"operation", "status"},
		),
		ProviderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "labelpay_provider_duration_seconds",
				Help:    "Shipping provider call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ProviderInconsistency: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_provider_inconsistency_total",
			Help: "Provider operations whose ledger settlement failed and need manual reconciliation",
		}),

		AccountsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_accounts_created_total",
				Help: "Total number of accounts created by role",
			},
			[]string{"role"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "labelpay_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "labelpay_db_connections",
			Help: "Current number of database connections",
		}),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpay_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "labelpay_rate_limit_hits_total",
			Help: "Total rate limit rejections",
		}),

		ReconciliationDrift: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "labelpay_reconciliation_drift",
				Help: "Difference between recorded balance and ledger sum per account",
			},
			[]string{"account_id"},
		),
	}
}
