package wage

import (
	"context"
	"time"
)

// EntryFilter narrows a month listing to one worker when WorkerID is set.
type EntryFilter struct {
	Month    time.Time
	WorkerID *string
}

// WageEntryRepository is tenant scoped: every method takes the organization id.
type WageEntryRepository interface {
	// CreateBatch inserts all entries in one statement (all-or-nothing)
	CreateBatch(ctx context.Context, entries []WageEntry) ([]WageEntry, error)
	GetByID(ctx context.Context, id string, organizationID string) (WageEntry, error)
	// GetByWorkerDate returns ErrWageEntryNotFound when the day has no entry of that kind
	GetByWorkerDate(ctx context.Context, organizationID, workerID string, date time.Time, isAdvance bool) (WageEntry, error)
	Update(ctx context.Context, entry WageEntry) (WageEntry, error)
	Delete(ctx context.Context, id string, organizationID string) error
	ListByMonth(ctx context.Context, organizationID string, filter EntryFilter) ([]WageEntry, error)
}

type BonusRepository interface {
	Get(ctx context.Context, organizationID, workerID string, month time.Time) (BonusEntry, error)
	Upsert(ctx context.Context, bonus BonusEntry) (BonusEntry, error)
	// Delete is a no-op when the bonus does not exist
	Delete(ctx context.Context, organizationID, workerID string, month time.Time) error
	ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]BonusEntry, error)
}

type PaymentRepository interface {
	Get(ctx context.Context, organizationID, workerID string, month time.Time) (PaymentMark, error)
	Create(ctx context.Context, mark PaymentMark) (PaymentMark, error)
	Delete(ctx context.Context, organizationID, workerID string, month time.Time) error
	ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]PaymentMark, error)
}
