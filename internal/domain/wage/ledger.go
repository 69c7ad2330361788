package wage

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Month returns the first day of t's month in UTC.
func Month(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := Month(month)
	return start, start.AddDate(0, 1, 0)
}

// SumExtraWork totals the extra-work amounts.
func SumExtraWork(items []ExtraWork) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// NewPluckingEntry builds a plucking line whose Amount is kg × rate + extra work.
func NewPluckingEntry(organizationID, workerID string, date time.Time, kg, rate decimal.Decimal, extra []ExtraWork) WageEntry {
	extraPayment := SumExtraWork(extra)
	return WageEntry{
		OrganizationID:   organizationID,
		WorkerID:         workerID,
		Date:             Day(date),
		KgPlucked:        kg,
		RatePerKg:        rate,
		ExtraWork:        extra,
		ExtraWorkPayment: extraPayment,
		IsAdvance:        false,
		Amount:           kg.Mul(rate).Add(extraPayment),
	}
}

// NewAdvanceEntry builds an advance line storing the absolute advance amount.
func NewAdvanceEntry(organizationID, workerID string, date time.Time, amount decimal.Decimal) WageEntry {
	return WageEntry{
		OrganizationID:   organizationID,
		WorkerID:         workerID,
		Date:             Day(date),
		KgPlucked:        decimal.Zero,
		RatePerKg:        decimal.Zero,
		ExtraWork:        nil,
		ExtraWorkPayment: decimal.Zero,
		IsAdvance:        true,
		Amount:           amount.Abs(),
	}
}

// ComputeMonthSummary folds one month of entries, bonuses and payment marks
// into per-worker summaries. It is pure: output depends only on the inputs.
// Workers appear in first-seen order (entries, then bonuses, then marks)
// before a stable sort by net salary, highest first.
func ComputeMonthSummary(entries []WageEntry, bonuses []BonusEntry, marks []PaymentMark) []WorkerSalarySummary {
	var order []string
	acc := make(map[string]*WorkerSalarySummary)
	days := make(map[string]map[string]struct{})

	get := func(workerID string) *WorkerSalarySummary {
		s, ok := acc[workerID]
		if !ok {
			s = &WorkerSalarySummary{
				WorkerID:     workerID,
				TotalKg:      decimal.Zero,
				TotalEarned:  decimal.Zero,
				TotalAdvance: decimal.Zero,
				Bonus:        decimal.Zero,
				NetSalary:    decimal.Zero,
				AvgKgPerDay:  decimal.Zero,
			}
			acc[workerID] = s
			order = append(order, workerID)
		}
		return s
	}

	for _, e := range entries {
		s := get(e.WorkerID)
		if e.IsAdvance {
			s.TotalAdvance = s.TotalAdvance.Add(e.Amount.Abs())
			continue
		}
		s.TotalKg = s.TotalKg.Add(e.KgPlucked)
		s.TotalEarned = s.TotalEarned.Add(e.KgPlucked.Mul(e.RatePerKg).Add(e.ExtraWorkPayment))
		if days[e.WorkerID] == nil {
			days[e.WorkerID] = make(map[string]struct{})
		}
		days[e.WorkerID][e.Date.Format(dateLayout)] = struct{}{}
	}

	for _, b := range bonuses {
		get(b.WorkerID).Bonus = b.Amount
	}

	for _, m := range marks {
		s := get(m.WorkerID)
		paidAt := m.PaidAt
		s.IsPaid = true
		s.PaidAt = &paidAt
	}

	result := make([]WorkerSalarySummary, 0, len(order))
	for _, workerID := range order {
		s := acc[workerID]
		s.DaysWorked = len(days[workerID])
		if s.DaysWorked > 0 {
			s.AvgKgPerDay = s.TotalKg.Div(decimal.NewFromInt(int64(s.DaysWorked)))
		}
		s.NetSalary = s.TotalEarned.Add(s.Bonus).Sub(s.TotalAdvance)
		result = append(result, *s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].NetSalary.GreaterThan(result[j].NetSalary)
	})

	return result
}
