package organization

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/organization"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
)

type OrganizationServiceImpl struct {
	orgRepo organization.OrganizationRepository
}

func NewOrganizationService(orgRepo organization.OrganizationRepository) organization.OrganizationService {
	return &OrganizationServiceImpl{orgRepo: orgRepo}
}

func (s *OrganizationServiceImpl) ResolveScope(ctx context.Context, userID, organizationID string) (tenant.Scope, error) {
	if validator.IsEmpty(organizationID) {
		return tenant.Scope{}, tenant.ErrMissingOrganization
	}
	if !validator.IsValidUUID(organizationID) {
		return tenant.Scope{}, organization.ErrOrganizationAccessDenied
	}

	m, err := s.orgRepo.GetMembership(ctx, organizationID, userID)
	if err != nil {
		return tenant.Scope{}, err
	}
	if !m.Role.Valid() {
		return tenant.Scope{}, organization.ErrInvalidRole
	}

	return tenant.Scope{
		OrganizationID: m.OrganizationID,
		UserID:         userID,
		Role:           string(m.Role),
	}, nil
}

func (s *OrganizationServiceImpl) ListMemberships(ctx context.Context, userID string) ([]organization.MembershipResponse, error) {
	memberships, err := s.orgRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]organization.MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		result = append(result, organization.MembershipResponse{OrganizationID: m.OrganizationID, Role: string(m.Role)})
	}
	return result, nil
}

func (s *OrganizationServiceImpl) CreateOrganization(ctx context.Context, userID string, req organization.CreateOrganizationRequest) (organization.MembershipResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.MembershipResponse{}, err
	}

	m, err := s.orgRepo.CreateOrganization(ctx, strings.TrimSpace(req.Name), userID)
	if err != nil {
		return organization.MembershipResponse{}, err
	}

	slog.Info("organization created", "organization_id", m.OrganizationID, "user_id", userID)
	return organization.MembershipResponse{OrganizationID: m.OrganizationID, Role: string(m.Role)}, nil
}

func (s *OrganizationServiceImpl) AcceptInvitation(ctx context.Context, userID string, req organization.AcceptInvitationRequest) (organization.MembershipResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.MembershipResponse{}, err
	}

	m, err := s.orgRepo.AcceptInvitation(ctx, strings.TrimSpace(req.Token), userID)
	if err != nil {
		return organization.MembershipResponse{}, err
	}

	slog.Info("invitation accepted", "organization_id", m.OrganizationID, "user_id", userID, "role", m.Role)
	return organization.MembershipResponse{OrganizationID: m.OrganizationID, Role: string(m.Role)}, nil
}
