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

const wagePaymentsTable = "wage_payments"

type wagePaymentRepositoryImpl struct {
	db   *database.DB
	mode database.TenantMode
}

func NewWagePaymentRepository(db *database.DB, mode database.TenantMode) wage.PaymentRepository {
	return &wagePaymentRepositoryImpl{db: db, mode: mode}
}

// Get implements wage.PaymentRepository.
func (r *wagePaymentRepositoryImpl) Get(ctx context.Context, organizationID, workerID string, month time.Time) (wage.PaymentMark, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{workerID, wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wagePaymentsTable, organizationID, args)
	query := `
		SELECT id, worker_id, month, paid_at, paid_by
		FROM wage_payments
		WHERE worker_id = $1 AND month = $2` + predicate

	m := wage.PaymentMark{OrganizationID: organizationID}
	err := q.QueryRow(ctx, query, args...).Scan(&m.ID, &m.WorkerID, &m.Month, &m.PaidAt, &m.PaidBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.PaymentMark{}, wage.ErrPaymentNotFound
		}
		return wage.PaymentMark{}, wage.NewPersistenceError("get payment mark", err)
	}
	return m, nil
}

// Create implements wage.PaymentRepository.
func (r *wagePaymentRepositoryImpl) Create(ctx context.Context, mark wage.PaymentMark) (wage.PaymentMark, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return wage.PaymentMark{}, err
	}

	query := `
		INSERT INTO wage_payments (id, worker_id, month, paid_at, paid_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, worker_id, month, paid_at, paid_by`
	args := []interface{}{id.String(), mark.WorkerID, wage.Month(mark.Month), mark.PaidAt, mark.PaidBy}
	if r.mode.Scoped(wagePaymentsTable) {
		query = `
			INSERT INTO wage_payments (id, worker_id, month, paid_at, paid_by, organization_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, worker_id, month, paid_at, paid_by`
		args = append(args, mark.OrganizationID)
	}

	created := wage.PaymentMark{OrganizationID: mark.OrganizationID}
	err = q.QueryRow(ctx, query, args...).Scan(&created.ID, &created.WorkerID, &created.Month, &created.PaidAt, &created.PaidBy)
	if err != nil {
		return wage.PaymentMark{}, wage.NewPersistenceError("create payment mark", err)
	}
	return created, nil
}

// Delete implements wage.PaymentRepository.
func (r *wagePaymentRepositoryImpl) Delete(ctx context.Context, organizationID, workerID string, month time.Time) error {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{workerID, wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wagePaymentsTable, organizationID, args)
	query := `DELETE FROM wage_payments WHERE worker_id = $1 AND month = $2` + predicate

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return wage.NewPersistenceError("delete payment mark", err)
	}
	return nil
}

// ListByMonth implements wage.PaymentRepository.
func (r *wagePaymentRepositoryImpl) ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]wage.PaymentMark, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{wage.Month(month)}
	predicate, args := tenantPredicate(r.mode, wagePaymentsTable, organizationID, args)
	query := `
		SELECT id, worker_id, month, paid_at, paid_by
		FROM wage_payments
		WHERE month = $1` + predicate + `
		ORDER BY paid_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wage.NewPersistenceError("list payment marks", err)
	}
	defer rows.Close()

	var marks []wage.PaymentMark
	for rows.Next() {
		m := wage.PaymentMark{OrganizationID: organizationID}
		if err := rows.Scan(&m.ID, &m.WorkerID, &m.Month, &m.PaidAt, &m.PaidBy); err != nil {
			return nil, wage.NewPersistenceError("list payment marks", err)
		}
		marks = append(marks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wage.NewPersistenceError("list payment marks", err)
	}

	return marks, nil
}
