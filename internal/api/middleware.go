package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// requireAuth is middleware that validates access tokens and attaches the
// authenticated user to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		user, err := s.authService.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin ensures the authenticated user is an admin.
// Must be used after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		if user == nil || user.Role != domain.RoleAdmin {
			response.Forbidden(w, "Admin access required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCompanyMember ensures the authenticated user belongs to the company
// named in the URL. Admins may access any company. Must be used after
// requireAuth, inside a route with a {companyID} parameter.
func (s *Server) requireCompanyMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		if user == nil {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}

		companyID := chi.URLParam(r, "companyID")
		if companyID == "" {
			response.BadRequest(w, "Company ID is required", s.logger)
			return
		}

		if user.Role != domain.RoleAdmin && !user.IsMemberOf(companyID) {
			response.Forbidden(w, "Not a member of this company", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// currentUser extracts the authenticated user from request context.
// Returns nil if not authenticated.
func currentUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}

// companyID extracts the company ID path parameter.
func companyID(r *http.Request) string {
	return chi.URLParam(r, "companyID")
}
