package handlers

import "net/http"

// Healthz handles GET /healthz
// @Summary      Liveness probe
// @Description  Always succeeds with an empty body, whatever the host state
// @Tags         health
// @Success      200
// @Router       /healthz [get]
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
