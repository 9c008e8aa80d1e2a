package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"

	"github.com/Lixing-Zhang/restaurant-menu/internal/config"
)

// APIKeyHeader carries the key that authorises menu changes
const APIKeyHeader = "api_key"

// APIKeyAuth rejects requests without a configured API key
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			valid := slices.ContainsFunc(cfg.APIKeys, func(k string) bool {
				return subtle.ConstantTimeCompare([]byte(k), []byte(apiKey)) == 1
			})
			if !valid {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
