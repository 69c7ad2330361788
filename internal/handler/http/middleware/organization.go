package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/estate-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/go-chi/jwtauth/v5"
)

const OrganizationHeader = "X-Organization-ID"

// ScopeResolver builds the tenant scope for a user in an organization.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, userID, organizationID string) (tenant.Scope, error)
}

// OrganizationMiddleware resolves the organization a request acts on
type OrganizationMiddleware struct {
	resolver ScopeResolver
}

func NewOrganizationMiddleware(resolver ScopeResolver) *OrganizationMiddleware {
	return &OrganizationMiddleware{resolver: resolver}
}

// RequireOrganization takes the organization from the X-Organization-ID
// header, falling back to the organization_id claim, and checks membership.
func (m *OrganizationMiddleware) RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		organizationID := strings.TrimSpace(r.Header.Get(OrganizationHeader))
		if organizationID == "" {
			_, claims, _ := jwtauth.FromContext(r.Context())
			organizationID, _ = claims["organization_id"].(string)
		}

		scope, err := m.resolver.ResolveScope(r.Context(), userID, organizationID)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithScope(r.Context(), scope)))
	})
}
