// Package metrics exposes Prometheus collectors for planning runs.
//
// Metrics:
//   - mapper_planner_plans_total: plans by kind and outcome ("emittable", "blocked")
//   - mapper_planner_diagnostics_total: diagnostics by code and severity
//   - mapper_planner_mapper_duration_seconds: time spent planning one mapper
//   - mapper_planner_mapper_faults_total: mappers abandoned after a fault
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mapper-planner/internal/plan"
)

// Namespace prefixes every metric name.
const Namespace = "mapper_planner"

// Plan outcomes.
const (
	OutcomeEmittable = "emittable"
	OutcomeBlocked   = "blocked"
)

// Collector records planning metrics. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	plansTotal       *prometheus.CounterVec
	diagnosticsTotal *prometheus.CounterVec
	mapperDuration   prometheus.Histogram
	faultsTotal      prometheus.Counter
}

// NewCollector creates a collector and registers it with registry. If
// registry is nil, a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		plansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "plans_total",
				Help:      "Total number of mapping plans by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics by code and severity",
			},
			[]string{"code", "severity"},
		),
		mapperDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "mapper_duration_seconds",
				Help:      "Time spent planning one mapper in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),
		faultsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "mapper_faults_total",
				Help:      "Total number of mappers abandoned after an unexpected error",
			},
		),
	}

	registry.MustRegister(
		c.plansTotal,
		c.diagnosticsTotal,
		c.mapperDuration,
		c.faultsTotal,
	)

	return c
}

// Registry returns the registry the collector is registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordPlan counts a plan and its diagnostics.
func (c *Collector) RecordPlan(p *plan.MappingPlan) {
	if c == nil || p == nil {
		return
	}

	outcome := OutcomeEmittable
	if !p.Emittable() {
		outcome = OutcomeBlocked
	}

	c.plansTotal.WithLabelValues(p.Kind.String(), outcome).Inc()

	for _, d := range p.Diagnostics.All() {
		c.diagnosticsTotal.WithLabelValues(d.Code, d.Severity.String()).Inc()
	}
}

// RecordMapper observes the planning time of one mapper. A faulted mapper
// is also counted as a fault.
func (c *Collector) RecordMapper(duration time.Duration, faulted bool) {
	if c == nil {
		return
	}

	c.mapperDuration.Observe(duration.Seconds())

	if faulted {
		c.faultsTotal.Inc()
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}
