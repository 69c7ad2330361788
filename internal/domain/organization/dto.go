package organization

import (
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
)

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

func (r *CreateOrganizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 120 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 120 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

func (r *AcceptInvitationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{Field: "token", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MembershipResponse struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}
