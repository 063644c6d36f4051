package application

import (
	metricsdomain "hyperion-agent/internal/metrics/domain"
)

// SnapshotResponse is the JSON body of GET /metrics
type SnapshotResponse struct {
	NodeName    string  `json:"node_name" example:"gpu-node-1"`
	CPUUsagePct float64 `json:"cpu_usage_pct" example:"50"`
	MemUsagePct float64 `json:"mem_usage_pct" example:"75"`
	GPUCount    uint32  `json:"gpu_count" example:"3"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToSnapshotResponse converts a domain snapshot to a response DTO
func ToSnapshotResponse(s metricsdomain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		NodeName:    s.NodeName,
		CPUUsagePct: s.CPUUsagePct,
		MemUsagePct: s.MemUsagePct,
		GPUCount:    s.GPUCount,
	}
}
