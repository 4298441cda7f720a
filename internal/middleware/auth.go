package middleware

import (
	"context"
	"net/http"

	"social-login/internal/auth"
	"social-login/internal/logger"
	"social-login/internal/session"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionResolver maps a request to its authenticated session, if any.
type SessionResolver interface {
	Current(ctx context.Context, r *http.Request) (*session.Session, error)
}

// SessionFromContext returns the authenticated session attached by LoadIdentity.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// IdentityFromContext returns the identity of the authenticated user.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return nil, false
	}
	return s.Identity, true
}

type IdentityMiddleware struct {
	Resolver SessionResolver
}

func NewIdentityMiddleware(resolver SessionResolver) *IdentityMiddleware {
	return &IdentityMiddleware{Resolver: resolver}
}

// LoadIdentity resolves the session once per request. Anonymous requests
// pass through untouched; a store failure ends the request with 500.
func (m *IdentityMiddleware) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Resolver.Current(r.Context(), r)
		if err != nil {
			logger.Error("failed to resolve session", map[string]any{
				"path":       r.URL.Path,
				"request_id": RequestIDFromContext(r.Context()),
				"error":      err,
			})
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if sess != nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
		}
		next.ServeHTTP(w, r)
	})
}
