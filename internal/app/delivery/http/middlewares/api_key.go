package middlewares

import (
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// RequireAPIKey gates administrative endpoints behind the internal API key.
// An empty configured key disables the check, which keeps local development
// frictionless.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configuredKey := m.InternalConfig.App.InternalAPIKey
		if configuredKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get(constvars.HeaderAPIKey) != configuredKey {
			m.Log.Warn("rejected request with invalid API key",
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
