package application

import (
	"context"

	metricsdomain "hyperion-agent/internal/metrics/domain"
)

// MetricsService answers snapshot queries
type MetricsService struct {
	source metricsdomain.Snapshotter
}

// NewMetricsService creates a new metrics service
func NewMetricsService(source metricsdomain.Snapshotter) *MetricsService {
	return &MetricsService{
		source: source,
	}
}

// GetSnapshot returns a freshly computed snapshot
func (s *MetricsService) GetSnapshot(ctx context.Context) SnapshotResponse {
	return ToSnapshotResponse(s.source.Snapshot(ctx))
}
