// Package metrics holds the Prometheus collectors shared by the server and
// the worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finovo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CalculatorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_calculator_runs_total",
			Help: "Calculator invocations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LedgerEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_ledger_events_total",
			Help: "Ledger events by direction (published, consumed, failed) and kind",
		},
		[]string{"direction", "kind"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_cache_lookups_total",
			Help: "Dashboard cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finovo_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	SuspiciousRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_suspicious_requests_total",
			Help: "Requests rejected as scans by reason",
		},
		[]string{"reason"},
	)

	ProfileLoadAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finovo_profile_load_attempts",
			Help:    "Attempts needed to load a profile",
			Buckets: []float64{1, 2, 3, 4, 5, 10, 20},
		},
	)

	SyncedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finovo_synced_rows_total",
			Help: "Ledger rows mirrored to the spreadsheet by result",
		},
		[]string{"kind", "result"},
	)
)
