package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var principalKey = contextKey{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// ErrorWriter renders an auth failure; the HTTP layer supplies its JSON writer.
type ErrorWriter func(w http.ResponseWriter, status int, err error)

// Authenticate requires a valid "Authorization: Bearer <token>" header.
func Authenticate(tokens *Tokens, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				onError(w, http.StatusUnauthorized, ErrInvalidToken)
				return
			}
			p, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				onError(w, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role Role, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				onError(w, http.StatusUnauthorized, ErrInvalidToken)
				return
			}
			if !p.HasRole(role) {
				onError(w, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
