// Package metrics provides Prometheus metrics for isorun.
//
// A one-shot supervisor has no stable lifetime for an HTTP scrape, so
// instead of serving /metrics the collector writes its registry in
// text exposition format for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Collector manages all Prometheus metrics for isorun. Each Collector
// owns a private registry so sequential invocations in the same
// process (bench mode) aggregate cleanly without global state.
type Collector struct {
	registry *prometheus.Registry

	invocations *prometheus.CounterVec
	duration    prometheus.Histogram
	builds      *prometheus.CounterVec
}

// NewCollector creates a new Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isorun_invocations_total",
				Help: "Supervised invocations by outcome",
			},
			[]string{"outcome"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "isorun_invocation_duration_seconds",
				Help: "Wall-clock duration of supervised invocations",
				// 10ms up to ~20s, which brackets any sane timeout
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),

		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isorun_builds_total",
				Help: "Subordinate build attempts by result",
			},
			[]string{"result"},
		),
	}

	c.registry.MustRegister(c.invocations, c.duration, c.builds)
	return c
}

// RecordInvocation records one completed supervision cycle.
func (c *Collector) RecordInvocation(outcome string, elapsed time.Duration) {
	c.invocations.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// RecordBuild records one provisioning build attempt.
// result is "success" or "failure".
func (c *Collector) RecordBuild(result string) {
	c.builds.WithLabelValues(result).Inc()
}

// Gather returns the current metric families from the registry.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}
