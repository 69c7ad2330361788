package organization

import "errors"

var (
	ErrOrganizationAccessDenied = errors.New("user is not a member of this organization")
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrInvitationNotFound       = errors.New("invitation not found or already used")
	ErrInvalidRole              = errors.New("membership has an unknown role")
)
