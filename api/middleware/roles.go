package middleware

import (
	"net/http"

	"github.com/velvethq/velvet-backend/api/responses"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
	"github.com/velvethq/velvet-backend/pkg/logger"
)

// RequireAnyRole admits requests whose authenticated role matches one of the
// given roles.
func RequireAnyRole(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
