package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/auth"
)

type contextKey struct{}

// WithClaims returns a copy of ctx carrying the session claims.
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(auth.Claims)
	return claims, ok
}

// UserID returns the authenticated subject of the request.
func UserID(r *http.Request) (uuid.UUID, error) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperr.ErrAuth
	}

	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, apperr.Auth("invalid session", err)
	}

	return id, nil
}

// Scope keys cached responses by the session subject.
func Scope(r *http.Request) string {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}

	return claims.Subject
}

// Authenticate rejects requests without a valid bearer token.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			action.Fail(w, r, apperr.ErrAuth, "Unauthorized")
			return
		}

		claims, err := h.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			action.Fail(w, r, err, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
