// Package tenant carries the organization a request acts on. A Scope is
// resolved once per request and passed explicitly to every ledger call.
package tenant

import (
	"context"
	"errors"
)

var ErrMissingOrganization = errors.New("organization scope is required")

type Scope struct {
	OrganizationID string
	UserID         string
	Role           string
}

func (s Scope) Validate() error {
	if s.OrganizationID == "" {
		return ErrMissingOrganization
	}
	return nil
}

type scopeCtxKey struct{}

func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeCtxKey{}).(Scope)
	return s, ok
}
