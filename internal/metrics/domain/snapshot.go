package domain

// DefaultNodeName is reported when the node identity is not configured
const DefaultNodeName = "unknown-node"

// Snapshot is a point-in-time view of host utilization.
// It is built fresh for every request and never stored.
type Snapshot struct {
	NodeName    string
	CPUUsagePct float64
	MemUsagePct float64
	GPUCount    uint32
}

// NewSnapshot creates a snapshot, substituting DefaultNodeName for an empty name
func NewSnapshot(nodeName string, cpuPct, memPct float64, gpuCount uint32) Snapshot {
	if nodeName == "" {
		nodeName = DefaultNodeName
	}
	return Snapshot{
		NodeName:    nodeName,
		CPUUsagePct: cpuPct,
		MemUsagePct: memPct,
		GPUCount:    gpuCount,
	}
}
