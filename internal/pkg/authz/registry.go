package authz

const (
	RoleOwner     = "owner"
	RoleManager   = "manager"
	RoleViewer    = "viewer"
	RoleAnonymous = "anonymous"
)

const (
	ActionView   = "view"
	ActionManage = "manage"
	ActionPay    = "pay"
)

const DomainAll = "*"

const (
	ObjectWage = "wage"
)
