package organization

import "context"

type OrganizationRepository interface {
	GetMembership(ctx context.Context, organizationID, userID string) (Membership, error)
	ListMemberships(ctx context.Context, userID string) ([]Membership, error)
	// CreateOrganization runs the create_organization procedure, which also
	// makes the caller the owner.
	CreateOrganization(ctx context.Context, name, userID string) (Membership, error)
	// AcceptInvitation runs the accept_invitation procedure for the caller.
	AcceptInvitation(ctx context.Context, token, userID string) (Membership, error)
}
