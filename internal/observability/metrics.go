// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Workflow metrics
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	StageDuration  *prometheus.HistogramVec
	StageFailures  *prometheus.CounterVec
	RunsInProgress prometheus.Gauge

	// Chain metrics
	RPCCallLatency        *prometheus.HistogramVec
	TransactionsSent      *prometheus.CounterVec
	ConfirmationLatency   prometheus.Histogram
	AuthorityRevocations  *prometheus.CounterVec
	InsufficientFundsHits prometheus.Counter

	// Pinning metrics
	PinRequests *prometheus.CounterVec
	PinLatency  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "spl_token_creator"
	}

	return &Metrics{
		// Workflow metrics
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "runs_total",
			Help:      "Total number of token creation runs by outcome",
		}, []string{"outcome"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "run_duration_seconds",
			Help:      "Token creation run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each workflow stage in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		StageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "stage_failures_total",
			Help:      "Total number of failed runs by failing stage",
		}, []string{"stage"}),
		RunsInProgress: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "runs_in_progress",
			Help:      "Number of token creation runs currently executing",
		}),

		// Chain metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TransactionsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "transactions_sent_total",
			Help:      "Total number of transactions submitted by label and status",
		}, []string{"label", "status"}),
		ConfirmationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "confirmation_latency_seconds",
			Help:      "Time from submission to confirmation in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 90},
		}),
		AuthorityRevocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "authority_revocations_total",
			Help:      "Total number of authority revocations by authority type",
		}, []string{"authority"}),
		InsufficientFundsHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "insufficient_funds_total",
			Help:      "Total number of runs stopped by the balance guard",
		}),

		// Pinning metrics
		PinRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pinning",
			Name:      "requests_total",
			Help:      "Total number of pinning requests by kind and status",
		}, []string{"kind", "status"}),
		PinLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pinning",
			Name:      "latency_seconds",
			Help:      "Pinning request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful token creation",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRunStarted increments the in-progress gauge.
func RecordRunStarted() {
	DefaultMetrics.RunsInProgress.Inc()
}

// RecordRunFinished records a completed run. failedStage is empty on success.
func RecordRunFinished(outcome, failedStage string, durationSeconds float64, finishedAtUnix int64) {
	DefaultMetrics.RunsInProgress.Dec()
	DefaultMetrics.RunsTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
	if failedStage != "" {
		DefaultMetrics.StageFailures.WithLabelValues(failedStage).Inc()
		return
	}
	DefaultMetrics.LastSuccessfulRun.Set(float64(finishedAtUnix))
}

// RecordStage records the duration of one workflow stage.
func RecordStage(stage string, seconds float64) {
	DefaultMetrics.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordInsufficientFunds increments the balance guard counter.
func RecordInsufficientFunds() {
	DefaultMetrics.InsufficientFundsHits.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordTransaction records a submitted transaction.
func RecordTransaction(label string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.TransactionsSent.WithLabelValues(label, status).Inc()
}

// RecordConfirmation records confirmation latency.
func RecordConfirmation(seconds float64) {
	DefaultMetrics.ConfirmationLatency.Observe(seconds)
}

// RecordRevocation records an authority revocation.
func RecordRevocation(authority string) {
	DefaultMetrics.AuthorityRevocations.WithLabelValues(authority).Inc()
}

// RecordPin records a pinning request.
func RecordPin(kind string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.PinRequests.WithLabelValues(kind, status).Inc()
	DefaultMetrics.PinLatency.WithLabelValues(kind).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
