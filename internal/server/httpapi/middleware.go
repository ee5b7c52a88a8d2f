package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/services"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller resolved by Authenticate.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// Authenticate rejects requests without a valid session and attaches the
// freshly loaded user to the request context. The session is read from the
// cookie first, then from an "Authorization: Bearer" header.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.sessionToken(r)
		if token == "" {
			s.metrics.Observe("authorize", common.ErrorUnauthorized)
			writeError(w, http.StatusUnauthorized, codeUnauth, "authentication required")
			return
		}

		user, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.metrics.Observe("authorize", err)
			writeServiceError(w, err)
			return
		}

		ctx := WithPrincipal(r.Context(), user.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles lets the request through only when the resolved role is in
// allowed. It must run after Authenticate.
func RequireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauth, "authentication required")
				return
			}
			if err := services.Authorize(p.Role, allowed...); err != nil {
				writeError(w, http.StatusForbidden, codeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(s.cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
