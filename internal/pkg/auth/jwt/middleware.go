package jwt

import (
	"context"
	"net/http"
	"strings"

	"convlo/internal/pkg/errs"
	"convlo/internal/pkg/logx"
	"convlo/internal/pkg/resp"
)

type contextKey string

// ContextAuthPayloadKey stores the parsed *Payload in the request context.
const ContextAuthPayloadKey contextKey = "auth_payload"

// IdentityExtractorMiddleware parses a bearer token when present and stores its
// payload in the context. Missing or invalid tokens leave the request anonymous;
// RequireIdentity decides whether anonymity is acceptable.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
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
				logx.Ctx(r.Context()).Warn().Err(err).Msg("invalid or expired JWT, treating as anonymous")
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPayload(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UsernameFromRequest(r); !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithPayload returns a copy of ctx carrying payload.
func WithPayload(ctx context.Context, payload *Payload) context.Context {
	return context.WithValue(ctx, ContextAuthPayloadKey, payload)
}

// GetPayloadFromContext returns the authenticated payload, or nil for anonymous requests.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)
	if !ok {
		return nil
	}
	return payload
}

// UsernameFromRequest returns the authenticated caller's username.
func UsernameFromRequest(r *http.Request) (string, bool) {
	payload := GetPayloadFromContext(r)
	if payload == nil || payload.Username == "" {
		return "", false
	}
	return payload.Username, true
}
