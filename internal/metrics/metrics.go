// Package metrics provides Prometheus metrics for the simulator.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "davsim_requests_total",
			Help: "Total number of simulated requests by verb and status",
		},
		[]string{"verb", "status"},
	)

	injectedFaultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "davsim_injected_faults_total",
			Help: "Total number of requests answered by the fault injector",
		},
	)

	bundlePartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "davsim_bundle_parts_total",
			Help: "Total number of bundle parts processed by outcome",
		},
		[]string{"status"},
	)

	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "davsim_responses_delivered_total",
			Help: "Total number of responses delivered by outcome",
		},
		[]string{"outcome"},
	)

	treeNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "davsim_tree_nodes",
			Help: "Number of nodes in the virtual tree",
		},
	)

	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "davsim_events_total",
			Help: "Total mutation events published by type",
		},
		[]string{"type"},
	)

	subscribersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "davsim_event_subscribers_active",
			Help: "Number of active mutation event subscribers",
		},
	)
)

// RecordRequest records one dispatched request.
func RecordRequest(verb string, status int) {
	requestsTotal.WithLabelValues(verb, strconv.Itoa(status)).Inc()
}

// RecordInjectedFault records a request short-circuited by the fault list.
func RecordInjectedFault() {
	injectedFaultsTotal.Inc()
}

// RecordBundlePart records one processed bundle part.
func RecordBundlePart(status string) {
	bundlePartsTotal.WithLabelValues(status).Inc()
}

// RecordDelivery records a response delivery ("delivered" or "aborted").
func RecordDelivery(outcome string) {
	deliveriesTotal.WithLabelValues(outcome).Inc()
}

// SetTreeNodes updates the virtual tree size gauge.
func SetTreeNodes(n int) {
	treeNodes.Set(float64(n))
}

// RecordEvent records a published mutation event.
func RecordEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}

// SetSubscribersActive updates the subscriber gauge.
func SetSubscribersActive(n int64) {
	subscribersActive.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
