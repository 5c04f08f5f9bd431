// Package metrics collects and exposes Prometheus metrics for the relay and
// the application API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records relay traffic, upstream latency, and login/history
// outcomes. Construct one per process with NewCollector and share it; all
// methods are safe for concurrent use.
type Collector struct {
	relayRequests   *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	logins          *prometheus.CounterVec
	historyFetches  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		relayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myride_relay_requests_total",
			Help: "Relay requests by HTTP status code",
		}, []string{"status"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "myride_upstream_latency_seconds",
			Help:    "Latency of proxied upstream requests",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myride_logins_total",
			Help: "Login attempts by outcome (success, rejected, error)",
		}, []string{"outcome"}),
		historyFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myride_history_fetches_total",
			Help: "Tap-history fetches by outcome (success, error)",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.relayRequests,
		c.upstreamLatency,
		c.logins,
		c.historyFetches,
	)

	return c
}

// RecordRelayRequest counts one relay response with the given status code.
func (c *Collector) RecordRelayRequest(status int) {
	c.relayRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RecordUpstreamLatency records the duration of one proxied upstream request.
func (c *Collector) RecordUpstreamLatency(d time.Duration) {
	c.upstreamLatency.Observe(d.Seconds())
}

// RecordLogin counts one login attempt. outcome is "success", "rejected"
// (bad credentials), or "error" (transport or upstream failure).
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordHistoryFetch counts one tap-history fetch by outcome.
func (c *Collector) RecordHistoryFetch(outcome string) {
	c.historyFetches.WithLabelValues(outcome).Inc()
}
