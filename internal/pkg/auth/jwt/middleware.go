package jwt

import (
	"context"
	"net/http"
	"strings"

	"roomhub/internal/pkg/logx"
)

type contextKey string

// ContextAuthPayloadKey stores the parsed Payload in the request context.
const ContextAuthPayloadKey contextKey = "auth_payload"

// IdentityExtractor parses a Bearer token from the Authorization header and,
// when valid, injects the Payload into the request context. It never rejects
// the request itself: a missing or invalid token means the request proceeds
// anonymously and each handler decides whether that is acceptable.
func IdentityExtractor(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("invalid or expired JWT, treating request as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext returns the authenticated Payload, or nil when the
// request is anonymous.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)
	if !ok {
		return nil
	}
	return payload
}
