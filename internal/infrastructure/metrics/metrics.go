// Package metrics exposes the application's Prometheus collectors. HTTP
// server metrics live in the router middleware; this package covers the
// domain-level counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/boglefolio/internal/usecase"
)

var (
	importJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boglefolio_import_jobs_total",
			Help: "Total number of CSV import jobs by mode",
		},
		[]string{"mode"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boglefolio_import_rows_total",
			Help: "Total number of imported CSV rows by outcome",
		},
		[]string{"outcome"},
	)

	quoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boglefolio_quote_requests_total",
			Help: "Total number of market data requests by outcome",
		},
		[]string{"outcome"},
	)

	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boglefolio_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveImportJob counts one import job. Mode is "sync" or "async".
func ObserveImportJob(mode string) {
	importJobsTotal.WithLabelValues(mode).Inc()
}

// ObserveImportResult counts the row outcomes of a finished import.
func ObserveImportResult(result *usecase.ImportResult) {
	importRowsTotal.WithLabelValues("created").Add(float64(result.Created))
	importRowsTotal.WithLabelValues("updated").Add(float64(result.Updated))
	importRowsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
}

// ObserveQuoteRequest counts one market data request. Outcome is "ok",
// "not_found" or "error".
func ObserveQuoteRequest(outcome string) {
	quoteRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveLoginAttempt counts one login attempt. Outcome is "success" or
// "failure".
func ObserveLoginAttempt(outcome string) {
	loginAttemptsTotal.WithLabelValues(outcome).Inc()
}
