package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the ledger line kind of a WageEntry
type EntryType string

const (
	EntryTypePlucking EntryType = "plucking"
	EntryTypeAdvance  EntryType = "advance"
)

// ExtraWork - itemized supplemental pay on a plucking day
type ExtraWork struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// WageEntry - one plucking or advance line for a worker on a date.
// Advances keep KgPlucked and RatePerKg at zero and store the advance
// magnitude (non-negative) in Amount.
type WageEntry struct {
	ID               string
	OrganizationID   string
	WorkerID         string
	Date             time.Time
	KgPlucked        decimal.Decimal
	RatePerKg        decimal.Decimal
	ExtraWork        []ExtraWork
	ExtraWorkPayment decimal.Decimal
	IsAdvance        bool
	Amount           decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e WageEntry) Type() EntryType {
	if e.IsAdvance {
		return EntryTypeAdvance
	}
	return EntryTypePlucking
}

// BonusEntry - one per worker per month
type BonusEntry struct {
	ID             string
	OrganizationID string
	WorkerID       string
	Month          time.Time
	Amount         decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentMark - presence means the worker's month is paid
type PaymentMark struct {
	ID             string
	OrganizationID string
	WorkerID       string
	Month          time.Time
	PaidAt         time.Time
	PaidBy         *string
}

// WorkerSalarySummary is derived per worker per month and never persisted.
type WorkerSalarySummary struct {
	WorkerID     string
	TotalKg      decimal.Decimal
	TotalEarned  decimal.Decimal
	TotalAdvance decimal.Decimal
	Bonus        decimal.Decimal
	NetSalary    decimal.Decimal
	DaysWorked   int
	AvgKgPerDay  decimal.Decimal
	IsPaid       bool
	PaidAt       *time.Time
}
