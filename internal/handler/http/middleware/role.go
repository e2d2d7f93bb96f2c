package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
)

// RequireRole allows the request through only when the caller has one of
// roles. It must run after AuthRequired.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed = append(allowed, string(role))
	}
	message := fmt.Sprintf("Insufficient permissions: requires one of %s", strings.Join(allowed, ", "))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			for _, role := range roles {
				if viewer.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, message)
		})
	}
}

// RequireReviewer allows manager, hr and admin.
func RequireReviewer(next http.Handler) http.Handler {
	return RequireRole(employee.RoleManager, employee.RoleHR, employee.RoleAdmin)(next)
}

// RequireHR allows hr and admin.
func RequireHR(next http.Handler) http.Handler {
	return RequireRole(employee.RoleHR, employee.RoleAdmin)(next)
}
