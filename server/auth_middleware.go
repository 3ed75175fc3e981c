package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the validated access token claims
	ContextKeyClaims ContextKey = "claims"
	// ContextKeyAccessToken stores the raw bearer token
	ContextKeyAccessToken ContextKey = "access_token"
)

func claimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims
}

// bearerToken extracts the credential from an Authorization header.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth validates the Bearer access token and injects its claims. Every failure is
// a 401 so the client can try its refresh token.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}
			claims, err := s.tokens.Validate(raw)
			if err != nil {
				msg := "Unauthenticated."
				if errors.Is(err, errors.ErrTokenExpired) {
					msg = "Token has expired."
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = context.WithValue(ctx, ContextKeyAccessToken, raw)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequirePermission must be chained after RequireAuth. Super admins pass every check.
func (s *Server) RequirePermission(permission string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFrom(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}
			if claims.UserType != users.TypeSuperAdmin && !slices.Contains(claims.Permissions, permission) {
				writeError(w, http.StatusForbidden, "This action is unauthorized.")
				return
			}
			next(w, r)
		}
	}
}
