package authz

import (
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

// ParseMode validates a configured mode. Disabling authorization needs an
// explicit unsafe opt-in.
func ParseMode(raw string, allowDisabled bool) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow:
		return Mode(raw), nil
	case ModeDisabled:
		if !allowDisabled {
			return "", errors.New("authz: AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")
		}
		return ModeDisabled, nil
	default:
		return "", errors.New("authz: invalid AUTHZ_MODE (expected enforce|shadow|disabled)")
	}
}

// Permission is an (object, action) pair checked against the policy.
type Permission struct {
	Object string
	Action string
}

func (p Permission) String() string {
	return p.Object + "." + p.Action
}

var (
	PermissionWageView   = Permission{Object: ObjectWage, Action: ActionView}
	PermissionWageManage = Permission{Object: ObjectWage, Action: ActionManage}
	PermissionWagePay    = Permission{Object: ObjectWage, Action: ActionPay}
)

// Request domain is the organization id; policy domain "*" applies to every organization.
const modelText = `
[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.dom == "*" || r.dom == p.dom) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicy grants ledger permissions per organization role.
var DefaultPolicy = [][]string{
	{SubjectFromRole(RoleOwner), DomainAll, ObjectWage, ActionView},
	{SubjectFromRole(RoleOwner), DomainAll, ObjectWage, ActionManage},
	{SubjectFromRole(RoleOwner), DomainAll, ObjectWage, ActionPay},
	{SubjectFromRole(RoleManager), DomainAll, ObjectWage, ActionView},
	{SubjectFromRole(RoleManager), DomainAll, ObjectWage, ActionManage},
	{SubjectFromRole(RoleViewer), DomainAll, ObjectWage, ActionView},
}

type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

func NewAuthorizer(mode Mode, policy [][]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if len(policy) > 0 {
		if _, err := enforcer.AddPolicies(policy); err != nil {
			return nil, err
		}
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

func SubjectFromRole(role string) string {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = RoleAnonymous
	}
	return "role:" + role
}

func DomainFromOrganizationID(organizationID string) string {
	return strings.ToLower(strings.TrimSpace(organizationID))
}

// Authorize evaluates the policy. enforced is false in shadow and disabled
// modes, where callers must let the request through regardless of allowed.
func (a *Authorizer) Authorize(role string, organizationID string, perm Permission) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(SubjectFromRole(role), DomainFromOrganizationID(organizationID), perm.Object, perm.Action)
		if err != nil {
			return false, false, err
		}
		return ok, false, nil
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(SubjectFromRole(role), DomainFromOrganizationID(organizationID), perm.Object, perm.Action)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	default:
		return false, false, errors.New("authz: unknown mode")
	}
}
