// Package metrics provides Prometheus metrics for backdesk API traffic and
// collection refreshes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client-side collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	refreshesTotal    *prometheus.CounterVec
	staleResponses    *prometheus.CounterVec
	collectionSize    *prometheus.GaugeVec
	mutationsTotal    *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backdesk_api_requests_total",
				Help: "Total number of backend API requests",
			},
			[]string{"resource", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backdesk_api_request_duration_seconds",
				Help:    "Backend API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "method"},
		),
		refreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backdesk_collection_refreshes_total",
				Help: "Total number of collection refreshes by outcome",
			},
			[]string{"resource", "outcome"},
		),
		staleResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backdesk_collection_stale_responses_total",
				Help: "Refresh responses discarded because a newer refresh was issued",
			},
			[]string{"resource"},
		),
		collectionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backdesk_collection_size",
				Help: "Number of entities in the cached collection",
			},
			[]string{"resource"},
		),
		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backdesk_mutations_total",
				Help: "Total number of create, update and delete submissions by outcome",
			},
			[]string{"resource", "op", "outcome"},
		),
		notificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backdesk_notifications_total",
				Help: "Total number of operator notifications by kind",
			},
			[]string{"kind"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.requestsTotal,
			m.requestDuration,
			m.refreshesTotal,
			m.staleResponses,
			m.collectionSize,
			m.mutationsTotal,
			m.notificationsSent,
		)
	}
	return m
}

// RecordRequest records one API round trip. status is 0 for transport failures.
func (m *Metrics) RecordRequest(resource, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(resource, method, code).Inc()
	m.requestDuration.WithLabelValues(resource, method).Observe(d.Seconds())
}

// RecordRefresh records a refresh outcome ("loaded", "error", "stale") and the
// collection size after it.
func (m *Metrics) RecordRefresh(resource, outcome string, size int) {
	if m == nil {
		return
	}
	m.refreshesTotal.WithLabelValues(resource, outcome).Inc()
	if outcome == "stale" {
		m.staleResponses.WithLabelValues(resource).Inc()
		return
	}
	m.collectionSize.WithLabelValues(resource).Set(float64(size))
}

// RecordMutation records a create, update or delete outcome.
func (m *Metrics) RecordMutation(resource, op, outcome string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(resource, op, outcome).Inc()
}

// RecordNotification counts a notification pushed to the operator.
func (m *Metrics) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(kind).Inc()
}
