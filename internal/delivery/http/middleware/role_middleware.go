package middleware

import (
	"net/http"

	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireClinician restricts an endpoint to users who may own clinical
// orders and validations
func RequireClinician(next http.Handler) http.Handler {
	return RequireRole(entity.RoleMedecin, entity.RoleAdmin)(next)
}

// RequireStaff admits any authenticated clinical staff member
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleMedecin, entity.RoleAdmin, entity.RoleInfirmier)(next)
}
