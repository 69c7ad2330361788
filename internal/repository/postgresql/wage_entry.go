package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const wageEntriesTable = "wage_entries"

const wageEntryColumns = `id, worker_id, date, kg_plucked, rate_per_kg, extra_work,
	extra_work_payment, is_advance, amount, created_at, updated_at`

type wageEntryRepositoryImpl struct {
	db   *database.DB
	mode database.TenantMode
}

func NewWageEntryRepository(db *database.DB, mode database.TenantMode) wage.WageEntryRepository {
	return &wageEntryRepositoryImpl{db: db, mode: mode}
}

func scanWageEntry(row pgx.Row, organizationID string) (wage.WageEntry, error) {
	var e wage.WageEntry
	var extraWork []byte
	err := row.Scan(
		&e.ID, &e.WorkerID, &e.Date, &e.KgPlucked, &e.RatePerKg, &extraWork,
		&e.ExtraWorkPayment, &e.IsAdvance, &e.Amount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return wage.WageEntry{}, err
	}
	if len(extraWork) > 0 {
		if err := json.Unmarshal(extraWork, &e.ExtraWork); err != nil {
			return wage.WageEntry{}, fmt.Errorf("failed to decode extra_work: %w", err)
		}
	}
	e.OrganizationID = organizationID
	return e, nil
}

func encodeExtraWork(items []wage.ExtraWork) ([]byte, error) {
	if len(items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(items)
}

// CreateBatch implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) CreateBatch(ctx context.Context, entries []wage.WageEntry) ([]wage.WageEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)
	scoped := r.mode.Scoped(wageEntriesTable)

	columns := []string{"id", "worker_id", "date", "kg_plucked", "rate_per_kg", "extra_work", "extra_work_payment", "is_advance", "amount"}
	if scoped {
		columns = append(columns, database.TenantColumn)
	}

	var (
		placeholders []string
		args         []interface{}
	)
	for _, e := range entries {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate wage entry id: %w", err)
		}
		extraWork, err := encodeExtraWork(e.ExtraWork)
		if err != nil {
			return nil, fmt.Errorf("failed to encode extra_work: %w", err)
		}
		args = append(args, id.String(), e.WorkerID, e.Date, e.KgPlucked, e.RatePerKg, extraWork, e.ExtraWorkPayment, e.IsAdvance, e.Amount)
		if scoped {
			args = append(args, e.OrganizationID)
		}

		marks := make([]string, len(columns))
		for i := range columns {
			marks[i] = fmt.Sprintf("$%d", len(args)-len(columns)+i+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
	}

	query := fmt.Sprintf(`
		INSERT INTO wage_entries (%s)
		VALUES %s
		RETURNING %s
	`, strings.Join(columns, ", "), strings.Join(placeholders, ", "), wageEntryColumns)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, wage.ErrDailyEntryConflict
		}
		return nil, wage.NewPersistenceError("create wage entries", err)
	}
	defer rows.Close()

	created := make([]wage.WageEntry, 0, len(entries))
	for rows.Next() {
		e, err := scanWageEntry(rows, entries[0].OrganizationID)
		if err != nil {
			return nil, wage.NewPersistenceError("create wage entries", err)
		}
		created = append(created, e)
	}
	if err := rows.Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, wage.ErrDailyEntryConflict
		}
		return nil, wage.NewPersistenceError("create wage entries", err)
	}

	return created, nil
}

// GetByID implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (wage.WageEntry, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	predicate, args := tenantPredicate(r.mode, wageEntriesTable, organizationID, args)
	query := `SELECT ` + wageEntryColumns + ` FROM wage_entries WHERE id = $1` + predicate

	e, err := scanWageEntry(q.QueryRow(ctx, query, args...), organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.WageEntry{}, wage.ErrWageEntryNotFound
		}
		return wage.WageEntry{}, wage.NewPersistenceError("get wage entry", err)
	}
	return e, nil
}

// GetByWorkerDate implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) GetByWorkerDate(ctx context.Context, organizationID, workerID string, date time.Time, isAdvance bool) (wage.WageEntry, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{workerID, wage.Day(date), isAdvance}
	predicate, args := tenantPredicate(r.mode, wageEntriesTable, organizationID, args)
	query := `SELECT ` + wageEntryColumns + `
		FROM wage_entries
		WHERE worker_id = $1 AND date = $2 AND is_advance = $3` + predicate + `
		ORDER BY created_at
		LIMIT 1`

	e, err := scanWageEntry(q.QueryRow(ctx, query, args...), organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.WageEntry{}, wage.ErrWageEntryNotFound
		}
		return wage.WageEntry{}, wage.NewPersistenceError("get wage entry by worker date", err)
	}
	return e, nil
}

// Update implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) Update(ctx context.Context, entry wage.WageEntry) (wage.WageEntry, error) {
	q := GetQuerier(ctx, r.db)

	extraWork, err := encodeExtraWork(entry.ExtraWork)
	if err != nil {
		return wage.WageEntry{}, fmt.Errorf("failed to encode extra_work: %w", err)
	}

	args := []interface{}{
		entry.Date, entry.KgPlucked, entry.RatePerKg, extraWork,
		entry.ExtraWorkPayment, entry.IsAdvance, entry.Amount, entry.ID,
	}
	predicate, args := tenantPredicate(r.mode, wageEntriesTable, entry.OrganizationID, args)
	query := `
		UPDATE wage_entries
		SET date = $1, kg_plucked = $2, rate_per_kg = $3, extra_work = $4,
			extra_work_payment = $5, is_advance = $6, amount = $7, updated_at = NOW()
		WHERE id = $8` + predicate + `
		RETURNING ` + wageEntryColumns

	updated, err := scanWageEntry(q.QueryRow(ctx, query, args...), entry.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.WageEntry{}, wage.ErrWageEntryNotFound
		}
		if isUniqueViolation(err) {
			return wage.WageEntry{}, wage.ErrDailyEntryConflict
		}
		return wage.WageEntry{}, wage.NewPersistenceError("update wage entry", err)
	}
	return updated, nil
}

// Delete implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	predicate, args := tenantPredicate(r.mode, wageEntriesTable, organizationID, args)
	query := `DELETE FROM wage_entries WHERE id = $1` + predicate + ` RETURNING id`

	var deletedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wage.ErrWageEntryNotFound
		}
		return wage.NewPersistenceError("delete wage entry", err)
	}
	return nil
}

// ListByMonth implements wage.WageEntryRepository.
func (r *wageEntryRepositoryImpl) ListByMonth(ctx context.Context, organizationID string, filter wage.EntryFilter) ([]wage.WageEntry, error) {
	q := GetQuerier(ctx, r.db)

	start, end := wage.MonthRange(filter.Month)
	args := []interface{}{start, end}
	query := `SELECT ` + wageEntryColumns + ` FROM wage_entries WHERE date >= $1 AND date < $2`

	if filter.WorkerID != nil {
		args = append(args, *filter.WorkerID)
		query += fmt.Sprintf(" AND worker_id = $%d", len(args))
	}
	predicate, args := tenantPredicate(r.mode, wageEntriesTable, organizationID, args)
	query += predicate + ` ORDER BY date, created_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wage.NewPersistenceError("list wage entries", err)
	}
	defer rows.Close()

	var entries []wage.WageEntry
	for rows.Next() {
		e, err := scanWageEntry(rows, organizationID)
		if err != nil {
			return nil, wage.NewPersistenceError("list wage entries", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wage.NewPersistenceError("list wage entries", err)
	}

	return entries, nil
}
