package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"memorial-platform/internal/identity"
	"memorial-platform/internal/infra/logging"
)

type principalCtxKey struct{}

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(ctx context.Context) *identity.Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*identity.Principal)
	return p
}

func withPrincipal(ctx context.Context, p *identity.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// Authenticator validates the bearer token and puts the principal into the
// request context. Roles come from the token's claims, so admin access is a
// claim on the principal record, not a hardcoded identity list.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		p, err := s.parsePrincipal(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := withPrincipal(r.Context(), p)
		ctx = logging.WithPrincipalID(ctx, p.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) parsePrincipal(tokenString string) (*identity.Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	p := &identity.Principal{ID: sub}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				p.Roles = append(p.Roles, role)
			}
		}
	}
	return p, nil
}

// RequireAdmin gates administrative routes on the role claim.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !identity.IsAdmin(PrincipalFrom(r.Context())) {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
