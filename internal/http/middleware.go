package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards the checkout routes with a single shared API key.
// Comparison is constant-time so the key cannot be probed byte by byte.
func BearerAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				respondError(w, http.StatusInternalServerError, "internal_error", "", "api key is not configured")
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				respondError(w, http.StatusUnauthorized, "authentication_error", "missing_auth", "missing bearer token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				respondError(w, http.StatusForbidden, "authentication_error", "invalid_auth", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
