// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode))
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, durationMs)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// TokenVerifier resolves a bearer token to a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (model.Identity, error)
}

// Guard applies bearer-token authentication to protected routes.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates an authentication guard.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Require wraps next so it only runs for verified requests. A missing or
// malformed Authorization header and a failed verification are reported
// separately; in both cases next never executes.
func (g *Guard) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			metrics.RecordAuthFailure("missing_header")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: codeUnauthorized, Message: "Unauthorized"})
			return
		}
		identity, err := g.verifier.Verify(r.Context(), raw)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: codeInvalidToken, Message: "Invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return tok, tok != ""
}

type identityKey struct{}

func withIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the verified identity the guard stored on the request
// context.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}
