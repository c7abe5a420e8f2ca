package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// CallerKey is the context key for the classified caller
	CallerKey ContextKey = "caller"
	// AuthErrorKey holds the reason a presented token was rejected
	AuthErrorKey ContextKey = "auth_error"
)

// TokenVerifier turns a bearer token into an identity
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}

// CallerClassifier derives the per-request facts of an identity
type CallerClassifier interface {
	Classify(ctx context.Context, id identity.Identity) (identity.Caller, error)
}

// Authenticate resolves the bearer token, if any, into a Caller stored in the request context.
// Missing or invalid tokens leave the request anonymous; RequireAuth rejects those where needed.
func Authenticate(verifier TokenVerifier, classifier CallerClassifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller := identity.AnonymousCaller()

			if token, ok := bearerToken(r); ok {
				id, err := verifier.Verify(ctx, token)
				switch {
				case err == nil:
					caller, err = classifier.Classify(ctx, id)
					if err != nil {
						response.FromError(w, r, err)
						return
					}
				case apperr.KindOf(err) == apperr.Unauthenticated:
					slog.DebugContext(ctx, "bearer token rejected", "error", err)
					ctx = context.WithValue(ctx, AuthErrorKey, err)
				default:
					response.FromError(w, r, err)
					return
				}
			}

			ctx = context.WithValue(ctx, CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetCaller(r.Context()).IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}
		if _, rejected := r.Context().Value(AuthErrorKey).(error); rejected {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}
		response.Unauthorized(w, "Authorization header required")
	})
}

// GetCaller extracts the caller from the request context. Requests that did not pass
// through Authenticate are anonymous.
func GetCaller(ctx context.Context) identity.Caller {
	caller, ok := ctx.Value(CallerKey).(identity.Caller)
	if !ok || caller.Identity == nil {
		return identity.AnonymousCaller()
	}
	return caller
}

// WithCaller returns a context carrying caller
func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
