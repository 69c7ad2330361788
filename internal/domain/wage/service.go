package wage

import (
	"context"

	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
)

// WageService is the salary ledger. Every call is bound to the organization
// carried by scope.
type WageService interface {
	// RecordDailyEntry saves the plucking and/or advance line for a worker's day
	RecordDailyEntry(ctx context.Context, scope tenant.Scope, req RecordDailyEntryRequest) ([]WageEntryResponse, error)

	// UpdateEntry edits an entry; switching type with data left for the old type forks a sibling
	UpdateEntry(ctx context.Context, scope tenant.Scope, req UpdateEntryRequest) ([]WageEntryResponse, error)

	DeleteEntry(ctx context.Context, scope tenant.Scope, id string) error

	ListEntries(ctx context.Context, scope tenant.Scope, req ListEntriesRequest) ([]WageEntryResponse, error)

	// ComputeMonthSummary derives every worker's salary for the month
	ComputeMonthSummary(ctx context.Context, scope tenant.Scope, month string) ([]WorkerSalarySummaryResponse, error)

	GetMonthTotals(ctx context.Context, scope tenant.Scope, month string) (MonthTotalsResponse, error)

	// SetBonus upserts a positive amount and deletes on zero
	SetBonus(ctx context.Context, scope tenant.Scope, req SetBonusRequest) (BonusResponse, error)

	// TogglePaid flips the paid mark and returns the new state
	TogglePaid(ctx context.Context, scope tenant.Scope, req TogglePaidRequest) (PaymentStatusResponse, error)
}
