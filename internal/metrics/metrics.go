// Package metrics records per-run counters for the scraper and writes them in
// the Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so repeated runs in one process (tests)
// never collide on metric registration. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	items     *prometheus.CounterVec
	published prometheus.Gauge
	pending   prometheus.Gauge
	lastRun   prometheus.Gauge
}

// New creates a Recorder with all run metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dola_collector_requests_total",
				Help: "Outbound requests issued, labeled by collector.",
			},
			[]string{"collector"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dola_collector_failures_total",
				Help: "Requests that failed or returned a non-2xx status, labeled by collector.",
			},
			[]string{"collector"},
		),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dola_collector_items_total",
				Help: "Raw listings produced, labeled by collector.",
			},
			[]string{"collector"},
		),
		published: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dola_events_published",
			Help: "Events spliced into the site by the last run.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dola_events_pending",
			Help: "Archived events still waiting to be published after the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dola_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.requests, r.failures, r.items, r.published, r.pending, r.lastRun)
	return r
}

// Request counts one outbound request for collector.
func (r *Recorder) Request(collector string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(collector).Inc()
}

// Failure counts one failed request for collector.
func (r *Recorder) Failure(collector string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(collector).Inc()
}

// Items adds n produced listings for collector.
func (r *Recorder) Items(collector string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.items.WithLabelValues(collector).Add(float64(n))
}

// Finish records the outcome of the publish step and the finish time.
func (r *Recorder) Finish(published, pending int, at time.Time) {
	if r == nil {
		return
	}
	r.published.Set(float64(published))
	r.pending.Set(float64(pending))
	r.lastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
