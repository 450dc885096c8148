// Package metrics exposes Prometheus counters for the console's outbound API calls and
// its navigation decisions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/go-clinic-console/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clinic_console"

// Collector implements apiclient.Recorder and router.Observer.
type Collector struct {
	apiRequests     *prometheus.CounterVec
	apiLatency      *prometheus.HistogramVec
	apiUnauthorized prometheus.Counter
	navigations     *prometheus.CounterVec
}

// NewCollector registers the console metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Back office API requests by method and status code (0 for transport failures).",
		}, []string{"method", "status_code"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Back office API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		apiUnauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_unauthorized_total",
			Help:      "Requests rejected with 401 while a session was held.",
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Route guard decisions by outcome and reason.",
		}, []string{"outcome", "reason"}),
	}

	reg.MustRegister(
		c.apiRequests,
		c.apiLatency,
		c.apiUnauthorized,
		c.navigations,
	)
	return c
}

func (c *Collector) ObserveRequest(method string, status int, elapsed time.Duration) {
	c.apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) RecordUnauthorized() {
	c.apiUnauthorized.Inc()
}

func (c *Collector) ObserveDecision(d router.Decision) {
	outcome := "redirect"
	if d.Allow {
		outcome = "allow"
	}
	c.navigations.WithLabelValues(outcome, string(d.Reason)).Inc()
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
