package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workerRepositoryImpl struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepositoryImpl{db: db}
}

// Create implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return worker.Worker{}, err
	}

	query := `
		INSERT INTO workers (id, organization_id, name, employee_code, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, name, employee_code, is_active, created_at, updated_at
	`

	var created worker.Worker
	err = q.QueryRow(ctx, query, id.String(), w.OrganizationID, w.Name, w.EmployeeCode, w.IsActive).Scan(
		&created.ID, &created.OrganizationID, &created.Name, &created.EmployeeCode,
		&created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return worker.Worker{}, worker.ErrEmployeeCodeExists
		}
		return worker.Worker{}, fmt.Errorf("failed to create worker: %w", err)
	}

	return created, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, employee_code, is_active, created_at, updated_at
		FROM workers
		WHERE id = $1 AND organization_id = $2
	`

	var w worker.Worker
	err := q.QueryRow(ctx, query, id, organizationID).Scan(
		&w.ID, &w.OrganizationID, &w.Name, &w.EmployeeCode, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker by id %s: %w", id, err)
	}

	return w, nil
}

// List implements worker.WorkerRepository.
func (r *workerRepositoryImpl) List(ctx context.Context, organizationID string, filter worker.WorkerFilter) ([]worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, employee_code, is_active, created_at, updated_at
		FROM workers
		WHERE organization_id = $1
	`
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []worker.Worker
	for rows.Next() {
		var w worker.Worker
		if err := rows.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.EmployeeCode, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

// SetActive implements worker.WorkerRepository.
func (r *workerRepositoryImpl) SetActive(ctx context.Context, id string, organizationID string, active bool) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workers
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
		RETURNING id, organization_id, name, employee_code, is_active, created_at, updated_at
	`

	var w worker.Worker
	err := q.QueryRow(ctx, query, active, id, organizationID).Scan(
		&w.ID, &w.OrganizationID, &w.Name, &w.EmployeeCode, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to update worker %s: %w", id, err)
	}

	return w, nil
}
