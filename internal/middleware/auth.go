// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/avo-labs/conversation-logger/pkg/metrics"
)

// APIKeyHeader is the header carrying the shared secret.
const APIKeyHeader = "x-api-key"

// APIKey creates the shared-secret gate protecting data routes. When no
// secret is configured the gate passes everything through; this is the
// documented insecure-by-default mode.
func APIKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				metrics.UnauthorizedTotal.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
