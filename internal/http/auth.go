package httpapi

import (
	"context"
	"net/http"
	"strings"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/services"
)

type contextKey string

const (
	ctxAdmin     contextKey = "admin"
	ctxSession   contextKey = "session"
	ctxRequestID contextKey = "requestId"
)

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// WithAuth requires a valid, unrevoked session of an active admin.
func (s *Server) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, session, err := s.Services.Accounts.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withAdmin(r.Context(), admin, session)))
	})
}

// OptionalAuth attaches the admin when a valid token is sent and otherwise
// lets the request through anonymously.
func (s *Server) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if admin, session, err := s.Services.Accounts.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(withAdmin(r.Context(), admin, session))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withAdmin(ctx context.Context, admin *models.Admin, session services.Session) context.Context {
	ctx = context.WithValue(ctx, ctxAdmin, admin)
	return context.WithValue(ctx, ctxSession, session)
}

func CurrentAdmin(r *http.Request) *models.Admin {
	if value, ok := r.Context().Value(ctxAdmin).(*models.Admin); ok {
		return value
	}
	return nil
}

func CurrentSession(r *http.Request) (services.Session, bool) {
	value, ok := r.Context().Value(ctxSession).(services.Session)
	return value, ok
}

func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := CurrentAdmin(r)
			if admin == nil || admin.Role != role {
				WriteError(w, http.StatusForbidden, "User role "+roleName(admin)+" is not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleName(admin *models.Admin) string {
	if admin == nil {
		return "anonymous"
	}
	return admin.Role
}
