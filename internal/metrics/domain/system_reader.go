package domain

import "context"

// SystemMetricsReader defines the interface for reading host metrics sources.
// Implementations report read failures as errors; callers decide the fallback.
type SystemMetricsReader interface {
	// ReadLoadAvg reads the 1-minute load average
	ReadLoadAvg(ctx context.Context) (float64, error)
	// ReadMemInfo reads MemTotal and MemAvailable. Missing or malformed
	// keys are left at 0 and do not cause an error.
	ReadMemInfo(ctx context.Context) (MemInfo, error)
	// CountGPUs counts entries in the GPU device directory
	CountGPUs(ctx context.Context) (uint32, error)
}
