package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "hyperion-agent/internal/api/application"
)

// MetricsHandler serves host utilization snapshots
type MetricsHandler struct {
	service *api.MetricsService
	prom    http.Handler
}

// NewMetricsHandler creates a new metrics handler.
// gatherer backs the Prometheus text endpoint.
func NewMetricsHandler(service *api.MetricsService, gatherer prometheus.Gatherer) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		prom: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}),
	}
}

// GetSnapshot handles GET /metrics
// @Summary      Host utilization snapshot
// @Description  Reads the host sources and returns CPU, memory and GPU figures. Unreadable sources report 0.
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  application.SnapshotResponse
// @Router       /metrics [get]
func (h *MetricsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	snap := h.service.GetSnapshot(r.Context())

	logger.Debug("Served metrics snapshot",
		"node", snap.NodeName,
		"cpu_usage_pct", snap.CPUUsagePct,
		"mem_usage_pct", snap.MemUsagePct,
		"gpu_count", snap.GPUCount,
	)
	respondJSON(w, http.StatusOK, snap)
}

// Prometheus handles GET /metrics/prometheus
// @Summary      Host utilization in Prometheus text format
// @Tags         metrics
// @Produce      plain
// @Success      200
// @Router       /metrics/prometheus [get]
func (h *MetricsHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	h.prom.ServeHTTP(w, r)
}
