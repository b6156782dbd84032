package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"taiwan-opendata/landsync/internal/config"
)

// TriggerAuthMiddleware guards the sync trigger endpoints with a static
// bearer secret. In production a missing secret refuses to run rather
// than operate unauthenticated; outside production an unset secret
// leaves the endpoints open for local development.
func TriggerAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.CronSecretConfigured() {
				if cfg.IsProduction() {
					http.Error(w, "Sync trigger disabled: CRON_SECRET not configured", http.StatusServiceUnavailable)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.CronSecret)) != 1 {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
