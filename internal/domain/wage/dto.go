package wage

import (
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Stored scales of the ledger columns. kg × rate then fits the amount column exactly.
const (
	KgScale    int32 = 3
	MoneyScale int32 = 2
)

const (
	msgKgScale    = "must have at most 3 decimal places"
	msgMoneyScale = "must have at most 2 decimal places"
	msgUUID       = "must be a valid UUID"
)

// ========== ENTRY DTOs ==========

type ExtraWorkInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type PluckingInput struct {
	KgPlucked decimal.Decimal  `json:"kg_plucked"`
	RatePerKg decimal.Decimal  `json:"rate_per_kg"`
	ExtraWork []ExtraWorkInput `json:"extra_work,omitempty"`
}

// HasData reports whether the plucking section carries anything worth a ledger line.
func (p *PluckingInput) HasData() bool {
	if p == nil {
		return false
	}
	return p.KgPlucked.IsPositive() || SumExtraWork(p.ExtraWorkItems()).IsPositive()
}

// ExtraWorkItems returns the non-blank extra-work rows.
func (p *PluckingInput) ExtraWorkItems() []ExtraWork {
	if p == nil {
		return nil
	}
	var items []ExtraWork
	for _, item := range p.ExtraWork {
		if item.Amount.IsZero() && validator.IsEmpty(item.Description) {
			continue
		}
		items = append(items, ExtraWork{Description: item.Description, Amount: item.Amount})
	}
	return items
}

func (p *PluckingInput) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if p == nil {
		return errs
	}
	if p.KgPlucked.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "plucking.kg_plucked", Message: "must be non-negative"})
	} else if !validator.HasMaxScale(p.KgPlucked, KgScale) {
		errs = append(errs, validator.ValidationError{Field: "plucking.kg_plucked", Message: msgKgScale})
	}
	if p.RatePerKg.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "plucking.rate_per_kg", Message: "must be non-negative"})
	} else if !validator.HasMaxScale(p.RatePerKg, MoneyScale) {
		errs = append(errs, validator.ValidationError{Field: "plucking.rate_per_kg", Message: msgMoneyScale})
	}
	for _, item := range p.ExtraWork {
		if item.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "plucking.extra_work", Message: "amounts must be non-negative"})
			break
		}
		if !validator.HasMaxScale(item.Amount, MoneyScale) {
			errs = append(errs, validator.ValidationError{Field: "plucking.extra_work", Message: "amounts " + msgMoneyScale})
			break
		}
	}
	return errs
}

func validateAdvance(amount *decimal.Decimal, errs validator.ValidationErrors) validator.ValidationErrors {
	if amount == nil {
		return errs
	}
	if amount.IsNegative() {
		return append(errs, validator.ValidationError{Field: "advance_amount", Message: "must be non-negative"})
	}
	if !validator.HasMaxScale(*amount, MoneyScale) {
		return append(errs, validator.ValidationError{Field: "advance_amount", Message: msgMoneyScale})
	}
	return errs
}

func validateWorkerID(workerID string, errs validator.ValidationErrors) validator.ValidationErrors {
	if validator.IsEmpty(workerID) {
		return append(errs, validator.ValidationError{Field: "worker_id", Message: "is required"})
	}
	if !validator.IsValidUUID(workerID) {
		return append(errs, validator.ValidationError{Field: "worker_id", Message: msgUUID})
	}
	return errs
}

func advanceHasData(amount *decimal.Decimal) bool {
	return amount != nil && amount.IsPositive()
}

type RecordDailyEntryRequest struct {
	WorkerID      string           `json:"worker_id"`
	Date          string           `json:"date"`
	Plucking      *PluckingInput   `json:"plucking,omitempty"`
	AdvanceAmount *decimal.Decimal `json:"advance_amount,omitempty"`
}

func (r *RecordDailyEntryRequest) HasPlucking() bool { return r.Plucking.HasData() }
func (r *RecordDailyEntryRequest) HasAdvance() bool  { return advanceHasData(r.AdvanceAmount) }

func (r *RecordDailyEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateWorkerID(r.WorkerID, errs)
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	errs = r.Plucking.validate(errs)
	errs = validateAdvance(r.AdvanceAmount, errs)
	if len(errs) == 0 && !r.HasPlucking() && !r.HasAdvance() {
		errs = append(errs, validator.ValidationError{Field: "entry", Message: "plucking data or advance_amount is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntryRequest is an edit of an existing entry. Type is the kind the
// user selected; both sections of the form may carry data.
type UpdateEntryRequest struct {
	ID            string           `json:"-"`
	Type          EntryType        `json:"type"`
	Date          *string          `json:"date,omitempty"`
	Plucking      *PluckingInput   `json:"plucking,omitempty"`
	AdvanceAmount *decimal.Decimal `json:"advance_amount,omitempty"`
}

// HasDataFor reports whether the form carries data for entry type t.
func (r *UpdateEntryRequest) HasDataFor(t EntryType) bool {
	if t == EntryTypeAdvance {
		return advanceHasData(r.AdvanceAmount)
	}
	return r.Plucking.HasData()
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Type != EntryTypePlucking && r.Type != EntryTypeAdvance {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'plucking' or 'advance'"})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	errs = r.Plucking.validate(errs)
	errs = validateAdvance(r.AdvanceAmount, errs)
	if len(errs) == 0 && !r.HasDataFor(r.Type) {
		errs = append(errs, validator.ValidationError{Field: string(r.Type), Message: "selected entry type has no data"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListEntriesRequest struct {
	Month    string  `json:"month"`
	WorkerID *string `json:"worker_id,omitempty"`
}

func (r *ListEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a valid month (YYYY-MM)"})
	}
	if r.WorkerID != nil && !validator.IsValidUUID(*r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: msgUUID})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WageEntryResponse struct {
	ID               string          `json:"id"`
	WorkerID         string          `json:"worker_id"`
	Date             string          `json:"date"`
	Type             string          `json:"type"`
	KgPlucked        decimal.Decimal `json:"kg_plucked"`
	RatePerKg        decimal.Decimal `json:"rate_per_kg"`
	ExtraWork        []ExtraWork     `json:"extra_work,omitempty"`
	ExtraWorkPayment decimal.Decimal `json:"extra_work_payment"`
	IsAdvance        bool            `json:"is_advance"`
	Amount           decimal.Decimal `json:"amount"`
}

// ========== BONUS & PAYMENT DTOs ==========

type SetBonusRequest struct {
	WorkerID string          `json:"worker_id"`
	Month    string          `json:"month"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r *SetBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateWorkerID(r.WorkerID, errs)
	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a valid month (YYYY-MM)"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	} else if !validator.HasMaxScale(r.Amount, MoneyScale) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: msgMoneyScale})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BonusResponse struct {
	WorkerID string          `json:"worker_id"`
	Month    string          `json:"month"`
	Amount   decimal.Decimal `json:"amount"`
}

type TogglePaidRequest struct {
	WorkerID string `json:"worker_id"`
	Month    string `json:"month"`
}

func (r *TogglePaidRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateWorkerID(r.WorkerID, errs)
	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a valid month (YYYY-MM)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentStatusResponse struct {
	WorkerID string  `json:"worker_id"`
	Month    string  `json:"month"`
	IsPaid   bool    `json:"is_paid"`
	PaidAt   *string `json:"paid_at,omitempty"`
}

// ========== SUMMARY DTOs ==========

type WorkerSalarySummaryResponse struct {
	WorkerID     string          `json:"worker_id"`
	WorkerName   string          `json:"worker_name"`
	TotalKg      decimal.Decimal `json:"total_kg"`
	TotalEarned  decimal.Decimal `json:"total_earned"`
	TotalAdvance decimal.Decimal `json:"total_advance"`
	Bonus        decimal.Decimal `json:"bonus"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	DaysWorked   int             `json:"days_worked"`
	AvgKgPerDay  decimal.Decimal `json:"avg_kg_per_day"`
	IsPaid       bool            `json:"is_paid"`
	PaidAt       *string         `json:"paid_at,omitempty"`
}

type MonthTotalsResponse struct {
	Month          string          `json:"month"`
	TotalWorkers   int             `json:"total_workers"`
	TotalKg        decimal.Decimal `json:"total_kg"`
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TotalAdvance   decimal.Decimal `json:"total_advance"`
	TotalBonus     decimal.Decimal `json:"total_bonus"`
	TotalNetSalary decimal.Decimal `json:"total_net_salary"`
	PaidCount      int             `json:"paid_count"`
	UnpaidCount    int             `json:"unpaid_count"`
	UnpaidNet      decimal.Decimal `json:"unpaid_net_salary"`
}
