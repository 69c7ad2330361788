package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/organization"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type organizationRepositoryImpl struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepositoryImpl{db: db}
}

// GetMembership implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetMembership(ctx context.Context, organizationID, userID string) (organization.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT organization_id, user_id, role, created_at
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2
	`

	var m organization.Membership
	err := q.QueryRow(ctx, query, organizationID, userID).Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Membership{}, organization.ErrOrganizationAccessDenied
		}
		return organization.Membership{}, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

// ListMemberships implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) ListMemberships(ctx context.Context, userID string) ([]organization.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT organization_id, user_id, role, created_at
		FROM organization_members
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []organization.Membership
	for rows.Next() {
		var m organization.Membership
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return memberships, nil
}

// callProcedure runs a server-side function that returns (organization_id, role).
// Authorization for these calls is enforced inside the database.
func (r *organizationRepositoryImpl) callProcedure(ctx context.Context, name string, args ...interface{}) (organization.Membership, error) {
	q := GetQuerier(ctx, r.db)

	placeholders := ""
	for i := range args {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`SELECT organization_id, role FROM %s(%s)`, pgx.Identifier{name}.Sanitize(), placeholders)

	var m organization.Membership
	if err := q.QueryRow(ctx, query, args...).Scan(&m.OrganizationID, &m.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Membership{}, organization.ErrInvitationNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42501" {
			return organization.Membership{}, organization.ErrOrganizationAccessDenied
		}
		return organization.Membership{}, fmt.Errorf("procedure %s failed: %w", name, err)
	}

	return m, nil
}

// CreateOrganization implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) CreateOrganization(ctx context.Context, name, userID string) (organization.Membership, error) {
	m, err := r.callProcedure(ctx, "create_organization", name, userID)
	if err != nil {
		return organization.Membership{}, err
	}
	m.UserID = userID
	return m, nil
}

// AcceptInvitation implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) AcceptInvitation(ctx context.Context, token, userID string) (organization.Membership, error) {
	m, err := r.callProcedure(ctx, "accept_invitation", token, userID)
	if err != nil {
		return organization.Membership{}, err
	}
	m.UserID = userID
	return m, nil
}
