package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	api "hyperion-agent/internal/api/application"
	"hyperion-agent/internal/infrastructure/logger"
)

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context()).SLog()
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// NotFound handles requests for unknown paths
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondJSONError(w, http.StatusNotFound, "not found: "+r.URL.Path)
}

// MethodNotAllowed handles known paths requested with an unsupported method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method)
}
