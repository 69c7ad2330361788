package organization

import (
	"context"

	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
)

type OrganizationService interface {
	// ResolveScope checks membership and builds the scope for ledger calls
	ResolveScope(ctx context.Context, userID, organizationID string) (tenant.Scope, error)
	ListMemberships(ctx context.Context, userID string) ([]MembershipResponse, error)
	CreateOrganization(ctx context.Context, userID string, req CreateOrganizationRequest) (MembershipResponse, error)
	AcceptInvitation(ctx context.Context, userID string, req AcceptInvitationRequest) (MembershipResponse, error)
}
