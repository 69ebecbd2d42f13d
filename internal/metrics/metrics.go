// Package metrics exposes Prometheus metrics for the routing engine:
// routing outcomes, queue depths, reservation contention, and HTTP
// request timings.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the custom prometheus registry for the application
var Registry = prometheus.NewRegistry()

// factory registers metrics against the custom Registry directly
var factory = promauto.With(Registry)

// RoutingOutcomesTotal counts routing decisions by outcome kind
var RoutingOutcomesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "routing_outcomes_total",
	Help:      "Routing decisions by outcome (connected, queued, rejected)",
}, []string{"outcome"})

// EnqueuesTotal counts calls placed into department queues
var EnqueuesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "enqueues_total",
	Help:      "Calls placed into a department queue",
})

// QueueOverflowsTotal counts calls rejected because a queue was full
var QueueOverflowsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "queue_overflows_total",
	Help:      "Calls rejected because the department queue was at capacity",
})

// QueueDepth tracks the current number of waiting calls per queue
var QueueDepth = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "dialdesk",
	Name:      "queue_depth",
	Help:      "Current number of waiting calls per department queue",
}, []string{"tenant_id", "department_id"})

// ReservationConflictsTotal counts lost agent reservation races
var ReservationConflictsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "reservation_conflicts_total",
	Help:      "Agent reservations lost to a concurrent routing attempt",
})

// CallsCompletedTotal counts calls finished normally
var CallsCompletedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "calls_completed_total",
	Help:      "Calls completed by an agent",
})

// CallsAbandonedTotal counts callers that hung up before connecting
var CallsAbandonedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "calls_abandoned_total",
	Help:      "Callers that hung up before reaching an agent",
})

// WebSocketConnections tracks currently open dashboard connections
var WebSocketConnections = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "dialdesk",
	Name:      "websocket_connections",
	Help:      "Currently open dashboard WebSocket connections",
})

// HTTPRequestsTotal counts HTTP requests by route and status code
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dialdesk",
	Name:      "http_requests_total",
	Help:      "HTTP requests by route and status code",
}, []string{"route", "status"})

// HTTPRequestDuration tracks HTTP request latency by route
var HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "dialdesk",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency by route",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
}, []string{"route"})

// RecordRoutingOutcome records one routing decision
func RecordRoutingOutcome(outcome string) {
	RoutingOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordEnqueue records a call entering a queue
func RecordEnqueue() {
	EnqueuesTotal.Inc()
}

// RecordQueueOverflow records a call rejected by a full queue
func RecordQueueOverflow() {
	QueueOverflowsTotal.Inc()
}

// SetQueueDepth updates the waiting-call gauge for one queue
func SetQueueDepth(tenantID, departmentID string, depth int) {
	QueueDepth.WithLabelValues(tenantID, departmentID).Set(float64(depth))
}

// RecordReservationConflict records a lost reservation race
func RecordReservationConflict() {
	ReservationConflictsTotal.Inc()
}

// RecordCallCompleted records a normally finished call
func RecordCallCompleted() {
	CallsCompletedTotal.Inc()
}

// RecordCallAbandoned records a caller hanging up early
func RecordCallAbandoned() {
	CallsAbandonedTotal.Inc()
}

// RecordWebSocketConnect increments the open-connection gauge
func RecordWebSocketConnect() {
	WebSocketConnections.Inc()
}

// RecordWebSocketDisconnect decrements the open-connection gauge
func RecordWebSocketDisconnect() {
	WebSocketConnections.Dec()
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the /metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
