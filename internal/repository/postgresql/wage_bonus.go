package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const wageBonusesTable = "wage_bonuses"

type wageBonusRepositoryImpl struct {
	db   *database.DB
	mode database.TenantMode
}

func NewWageBonusRepository(db *database.DB, mode database.TenantMode) wage.BonusRepository {
	return &wageBonusRepositoryImpl{db: db, mode: mode}
}

// Get implements wage.BonusRepository.
func (r *wageBonusRepositoryImpl) Get(ctx context.Context, organizationID, workerID string, month time.Time) (wage.BonusEntry, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{workerID, wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wageBonusesTable, organizationID, args)
	query := `
		SELECT id, worker_id, month, amount, created_at, updated_at
		FROM wage_bonuses
		WHERE worker_id = $1 AND month = $2` + predicate

	b := wage.BonusEntry{OrganizationID: organizationID}
	err := q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.WorkerID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.BonusEntry{}, wage.ErrBonusNotFound
		}
		return wage.BonusEntry{}, wage.NewPersistenceError("get bonus", err)
	}
	return b, nil
}

// Upsert implements wage.BonusRepository.
func (r *wageBonusRepositoryImpl) Upsert(ctx context.Context, bonus wage.BonusEntry) (wage.BonusEntry, error) {
	if !r.mode.Scoped(wageBonusesTable) {
		return r.upsertUnscoped(ctx, bonus)
	}
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return wage.BonusEntry{}, err
	}

	query := `
		INSERT INTO wage_bonuses (id, worker_id, month, amount, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, worker_id, month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, worker_id, month, amount, created_at, updated_at`

	saved := wage.BonusEntry{OrganizationID: bonus.OrganizationID}
	err = q.QueryRow(ctx, query, id.String(), bonus.WorkerID, wage.Month(bonus.Month), bonus.Amount, bonus.OrganizationID).
		Scan(&saved.ID, &saved.WorkerID, &saved.Month, &saved.Amount, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return wage.BonusEntry{}, wage.NewPersistenceError("upsert bonus", err)
	}
	return saved, nil
}

// upsertUnscoped serves tables not yet migrated, which may lack the
// (organization_id, worker_id, month) unique key ON CONFLICT needs.
func (r *wageBonusRepositoryImpl) upsertUnscoped(ctx context.Context, bonus wage.BonusEntry) (wage.BonusEntry, error) {
	var saved wage.BonusEntry
	err := NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		saved = wage.BonusEntry{OrganizationID: bonus.OrganizationID}

		err := q.QueryRow(ctx, `
			UPDATE wage_bonuses SET amount = $3, updated_at = NOW()
			WHERE worker_id = $1 AND month = $2
			RETURNING id, worker_id, month, amount, created_at, updated_at`,
			bonus.WorkerID, wage.Month(bonus.Month), bonus.Amount,
		).Scan(&saved.ID, &saved.WorkerID, &saved.Month, &saved.Amount, &saved.CreatedAt, &saved.UpdatedAt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		return q.QueryRow(ctx, `
			INSERT INTO wage_bonuses (id, worker_id, month, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id, worker_id, month, amount, created_at, updated_at`,
			id.String(), bonus.WorkerID, wage.Month(bonus.Month), bonus.Amount,
		).Scan(&saved.ID, &saved.WorkerID, &saved.Month, &saved.Amount, &saved.CreatedAt, &saved.UpdatedAt)
	})
	if err != nil {
		return wage.BonusEntry{}, wage.NewPersistenceError("upsert bonus", err)
	}
	return saved, nil
}

// Delete implements wage.BonusRepository.
func (r *wageBonusRepositoryImpl) Delete(ctx context.Context, organizationID, workerID string, month time.Time) error {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{workerID, wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wageBonusesTable, organizationID, args)
	query := `DELETE FROM wage_bonuses WHERE worker_id = $1 AND month = $2` + predicate

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return wage.NewPersistenceError("delete bonus", err)
	}
	return nil
}

// ListByMonth implements wage.BonusRepository.
func (r *wageBonusRepositoryImpl) ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]wage.BonusEntry, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wageBonusesTable, organizationID, args)
	query := `
		SELECT id, worker_id, month, amount, created_at, updated_at
		FROM wage_bonuses
		WHERE month = $1` + predicate + `
		ORDER BY created_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wage.NewPersistenceError("list bonuses", err)
	}
	defer rows.Close()

	var bonuses []wage.BonusEntry
	for rows.Next() {
		b := wage.BonusEntry{OrganizationID: organizationID}
		if err := rows.Scan(&b.ID, &b.WorkerID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, wage.NewPersistenceError("list bonuses", err)
		}
		bonuses = append(bonuses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wage.NewPersistenceError("list bonuses", err)
	}

	return bonuses, nil
}
