package application

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"hyperion-agent/internal/metrics/domain"
)

const namespace = "hyperion"

// SnapshotCollector exposes a fresh snapshot on every scrape
type SnapshotCollector struct {
	source domain.Snapshotter

	cpu *prometheus.Desc
	mem *prometheus.Desc
	gpu *prometheus.Desc
}

// NewSnapshotCollector creates a collector reading from source
func NewSnapshotCollector(source domain.Snapshotter) *SnapshotCollector {
	labels := []string{"node"}
	return &SnapshotCollector{
		source: source,
		cpu: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "node", "cpu_usage_percent"),
			"1-minute load average per logical core, as a percentage clamped to [0,100].",
			labels, nil,
		),
		mem: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "node", "memory_usage_percent"),
			"Share of total memory that is not available, as a percentage.",
			labels, nil,
		),
		gpu: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "node", "gpu_count"),
			"Number of GPU devices present on the node.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *SnapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpu
	ch <- c.mem
	ch <- c.gpu
}

// Collect implements prometheus.Collector
func (c *SnapshotCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.source.Snapshot(context.Background())
	ch <- prometheus.MustNewConstMetric(c.cpu, prometheus.GaugeValue, snap.CPUUsagePct, snap.NodeName)
	ch <- prometheus.MustNewConstMetric(c.mem, prometheus.GaugeValue, snap.MemUsagePct, snap.NodeName)
	ch <- prometheus.MustNewConstMetric(c.gpu, prometheus.GaugeValue, float64(snap.GPUCount), snap.NodeName)
}

// NewRegistry returns a registry holding only the snapshot collector
func NewRegistry(source domain.Snapshotter) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewSnapshotCollector(source))
	return reg
}
