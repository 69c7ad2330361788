package organization

import "time"

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleViewer:
		return true
	}
	return false
}

type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Membership grants a user a role inside one organization.
type Membership struct {
	OrganizationID string
	UserID         string
	Role           Role
	CreatedAt      time.Time
}
