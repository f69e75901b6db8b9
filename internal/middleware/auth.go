package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/metrics"
)

// unauthorizedBody is the single response for every authentication failure.
const unauthorizedBody = `{"error":"Unauthorized access","code":"UNAUTHORIZED"}`

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Metrics  metrics.Recorder
}

// Auth returns a middleware that authenticates requests with a bearer token.
// On success the verified subject is attached to the request context.
// Every verification runs against the identity provider; nothing is cached.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := cfg.Verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				reason := failureReason(err)
				recorder.IncAuthFailure(reason)

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			recorder.IncAuthSuccess()

			ctx := auth.ContextWithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// failureReason classifies a verification error for logs and metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingHeader):
		return "missing_header"
	case errors.Is(err, auth.ErrMalformedHeader):
		return "malformed_header"
	default:
		return "invalid_token"
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
