package middleware

import (
	"net/http"

	"hyperion-agent/internal/infrastructure/logger"
)

// WithLogger makes l available to handlers through the request context
func WithLogger(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
		})
	}
}
