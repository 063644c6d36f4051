package domain

import "math"

// MemInfo holds the two memory-info values the agent consults, in kB.
// A value that was missing or unparsable is 0.
type MemInfo struct {
	TotalKB     float64
	AvailableKB float64
}

// CPUUsagePct normalizes a 1-minute load average by the logical core count
// and returns it as a percentage clamped to [0,100].
func CPUUsagePct(load float64, cores int) float64 {
	if cores <= 0 || math.IsNaN(load) || math.IsInf(load, 0) {
		return 0
	}
	return clampPct(load / float64(cores) * 100)
}

// MemUsagePct returns the share of total memory that is not available.
// It is 0 when the total is unknown.
func MemUsagePct(info MemInfo) float64 {
	if !(info.TotalKB > 0) || math.IsInf(info.TotalKB, 0) {
		return 0
	}
	avail := info.AvailableKB
	if math.IsNaN(avail) || math.IsInf(avail, 0) {
		avail = 0
	}
	return clampPct((info.TotalKB - avail) / info.TotalKB * 100)
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
