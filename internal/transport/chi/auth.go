package chi

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "x-api-key"

// APIKeyMiddleware returns a middleware that rejects requests whose x-api-key header
// does not equal apiKey exactly.
func APIKeyMiddleware(apiKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	expected := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logpkg.FromContextOr(r.Context(), logger)

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				log.Warn("Missing API key", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "Missing API Key")
				return
			}

			if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
				log.Warn("Invalid API key attempt", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "Invalid API Key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
