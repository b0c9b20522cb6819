// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/errors"
)

// Roles assigned to API keys. Device keys can only reach the ingest
// surface; admin keys get the dashboard surface.
const (
	RoleDevice = "device"
	RoleAdmin  = "admin"
)

// APIKeyMiddleware authenticates requests against the static key
// allowlists from configuration.
type APIKeyMiddleware struct {
	deviceKeys map[string]bool
	adminKeys  map[string]bool
}

func NewAPIKeyMiddleware(cfg config.AuthConfig) *APIKeyMiddleware {
	m := &APIKeyMiddleware{
		deviceKeys: make(map[string]bool, len(cfg.DeviceKeys)),
		adminKeys:  make(map[string]bool, len(cfg.AdminKeys)),
	}
	for _, key := range cfg.DeviceKeys {
		m.deviceKeys[key] = true
	}
	for _, key := range cfg.AdminKeys {
		m.adminKeys[key] = true
	}
	return m
}

// Authenticate validates the bearer key and adds the caller's roles to
// the request context.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := extractToken(r)
		if key == "" {
			handleError(w, errors.NewAuthError("no API key provided", nil))
			return
		}

		var roles []string
		switch {
		case m.adminKeys[key]:
			roles = []string{RoleAdmin}
		case m.deviceKeys[key]:
			roles = []string{RoleDevice}
		default:
			handleError(w, errors.NewAuthError("invalid API key", nil))
			return
		}

		ctx := context.WithValue(r.Context(), "user_roles", roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles ensures the caller holds at least one of the given roles.
func (m *APIKeyMiddleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerRoles, ok := r.Context().Value("user_roles").([]string)
			if !ok {
				handleError(w, errors.NewAuthError("no user context found", nil))
				return
			}

			if !hasAnyRole(callerRoles, roles) {
				handleError(w, errors.NewAuthorizationError("insufficient permissions", nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Helper functions

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func hasAnyRole(callerRoles, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}

	roleMap := make(map[string]bool)
	for _, role := range callerRoles {
		roleMap[role] = true
	}

	for _, required := range requiredRoles {
		if required == "*" || roleMap[required] {
			return true
		}
	}
	return false
}

func handleError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	_ = json.NewEncoder(w).Encode(err)
}
