package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/estate-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/authz"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
)

// RequirePermission checks the resolved scope's role against the policy.
// Must run after RequireOrganization.
func RequirePermission(a *authz.Authorizer, permission authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := tenant.FromContext(r.Context())
			if !ok {
				response.HandleError(w, tenant.ErrMissingOrganization)
				return
			}

			allowed, enforced, err := a.Authorize(scope.Role, scope.OrganizationID, permission)
			if err != nil {
				slog.Error("authorization check failed", "error", err, "permission", permission.String())
				response.InternalServerError(w, "Authorization check failed")
				return
			}

			if !allowed {
				if !enforced {
					slog.Warn("authorization denied in shadow mode",
						"permission", permission.String(), "role", scope.Role, "organization_id", scope.OrganizationID)
					next.ServeHTTP(w, r)
					return
				}
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, scope.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
