package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type viewerKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the caller as a leave.Viewer in the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, jwt.ErrInvalidClaims)
			return
		}

		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		viewer := leave.Viewer{EmployeeID: claims.EmployeeID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
	})
}

func WithViewer(ctx context.Context, viewer leave.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFromContext returns the caller stored by AuthRequired.
func ViewerFromContext(ctx context.Context) (leave.Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey{}).(leave.Viewer)
	return viewer, ok
}
