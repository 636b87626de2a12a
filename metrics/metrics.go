// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package metrics tracks run progress and exposes it two ways: as
// rcrowley/go-metrics gauges/counters, and, bridged on demand, as
// Prometheus collectors for the admin HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	rmetrics "github.com/rcrowley/go-metrics"
)

var (
	registry = rmetrics.NewRegistry()

	sharedCounterGauge  = rmetrics.NewRegisteredGauge("geyserbench/quota/observed", registry)
	quotaTargetGauge    = rmetrics.NewRegisteredGauge("geyserbench/quota/target", registry)
	envelopesDropped    = rmetrics.NewRegisteredCounter("geyserbench/queue/dropped", registry)
	producersRunning    = rmetrics.NewRegisteredGauge("geyserbench/producers/running", registry)
)

// ProgressTracker records the shared novelty counter as it grows and is
// shared by all producers (see ProviderContext.progress in spec.md §4.4).
type ProgressTracker struct {
	target int
}

// NewProgressTracker builds a tracker for a run with the given quota; target
// may be zero for an unbounded run.
func NewProgressTracker(target int) *ProgressTracker {
	quotaTargetGauge.Update(int64(target))
	return &ProgressTracker{target: target}
}

// Record is called with the new value of the shared quota counter every
// time it advances.
func (p *ProgressTracker) Record(value int) {
	sharedCounterGauge.Update(int64(value))
}

// RecordDrop increments the queue-full drop counter.
func RecordDrop() {
	envelopesDropped.Inc(1)
}

// SetProducersRunning reports how many producers are still active.
func SetProducersRunning(n int) {
	producersRunning.Update(int64(n))
}

// PrometheusCollectors exposes the registry's gauges/counters as Prometheus
// collectors for registration against a promhttp handler.
func PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		newGaugeCollector("geyserbench_quota_observed", "Unique signatures observed so far across all sources.", sharedCounterGauge),
		newGaugeCollector("geyserbench_quota_target", "Configured signature quota for this run (0 = unbounded).", quotaTargetGauge),
		newCounterCollector("geyserbench_queue_dropped_total", "Envelopes dropped because the handoff queue was full.", envelopesDropped),
		newGaugeCollector("geyserbench_producers_running", "Number of provider workers still running.", producersRunning),
	}
}

type gaugeCollector struct {
	desc  *prometheus.Desc
	gauge rmetrics.Gauge
}

func newGaugeCollector(name, help string, gauge rmetrics.Gauge) *gaugeCollector {
	return &gaugeCollector{desc: prometheus.NewDesc(name, help, nil, nil), gauge: gauge}
}

func (g *gaugeCollector) Describe(ch chan<- *prometheus.Desc) { ch <- g.desc }
func (g *gaugeCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, float64(g.gauge.Value()))
}

type counterCollector struct {
	desc    *prometheus.Desc
	counter rmetrics.Counter
}

func newCounterCollector(name, help string, counter rmetrics.Counter) *counterCollector {
	return &counterCollector{desc: prometheus.NewDesc(name, help, nil, nil), counter: counter}
}

func (c *counterCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }
func (c *counterCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(c.counter.Count()))
}
