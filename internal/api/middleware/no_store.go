package middleware

import "net/http"

// NoStore marks responses as uncacheable. Every snapshot reflects host
// state at request time, so intermediaries must not serve stale copies.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
