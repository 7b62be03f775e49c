// Package metrics exposes the service's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trafficguard_http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trafficguard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ViolationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficguard_violations_recorded_total",
		Help: "Violations created in the ledger.",
	})

	PaymentsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficguard_payments_received_total",
		Help: "Payments recorded against violations.",
	})

	DisputesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficguard_disputes_opened_total",
		Help: "Violations transitioned to disputed.",
	})

	ViolationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficguard_violations_deleted_total",
		Help: "Violations removed from the ledger.",
	})

	AuditEventsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficguard_audit_events_appended_total",
		Help: "Events appended to the audit trail.",
	})
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
