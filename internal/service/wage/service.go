package wage

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type WageServiceImpl struct {
	tx          database.Transactor
	entryRepo   wage.WageEntryRepository
	bonusRepo   wage.BonusRepository
	paymentRepo wage.PaymentRepository
	workerRepo  worker.WorkerRepository
	now         func() time.Time
}

func NewWageService(
	tx database.Transactor,
	entryRepo wage.WageEntryRepository,
	bonusRepo wage.BonusRepository,
	paymentRepo wage.PaymentRepository,
	workerRepo worker.WorkerRepository,
) wage.WageService {
	return &WageServiceImpl{
		tx:          tx,
		entryRepo:   entryRepo,
		bonusRepo:   bonusRepo,
		paymentRepo: paymentRepo,
		workerRepo:  workerRepo,
		now:         time.Now,
	}
}

func (s *WageServiceImpl) ensureWorker(ctx context.Context, organizationID, workerID string) error {
	if _, err := s.workerRepo.GetByID(ctx, workerID, organizationID); err != nil {
		return err
	}
	return nil
}

// buildEntry turns the section of the form matching t into a ledger line.
func buildEntry(organizationID, workerID string, date time.Time, t wage.EntryType, plucking *wage.PluckingInput, advance *decimal.Decimal) wage.WageEntry {
	if t == wage.EntryTypeAdvance {
		amount := decimal.Zero
		if advance != nil {
			amount = *advance
		}
		return wage.NewAdvanceEntry(organizationID, workerID, date, amount)
	}
	if plucking == nil {
		return wage.NewPluckingEntry(organizationID, workerID, date, decimal.Zero, decimal.Zero, nil)
	}
	return wage.NewPluckingEntry(organizationID, workerID, date, plucking.KgPlucked, plucking.RatePerKg, plucking.ExtraWorkItems())
}

// slotTaken reports whether another entry of the same kind already sits on date.
func (s *WageServiceImpl) slotTaken(ctx context.Context, organizationID, workerID string, date time.Time, isAdvance bool, selfID string) (bool, error) {
	other, err := s.entryRepo.GetByWorkerDate(ctx, organizationID, workerID, date, isAdvance)
	if err != nil {
		if errors.Is(err, wage.ErrWageEntryNotFound) {
			return false, nil
		}
		return false, err
	}
	return other.ID != selfID, nil
}

// ========== ENTRIES ==========

func (s *WageServiceImpl) RecordDailyEntry(ctx context.Context, scope tenant.Scope, req wage.RecordDailyEntryRequest) ([]wage.WageEntryResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, _ := validator.IsValidDate(req.Date)

	if err := s.ensureWorker(ctx, scope.OrganizationID, req.WorkerID); err != nil {
		return nil, err
	}

	var candidates []wage.WageEntry
	if req.HasPlucking() {
		candidates = append(candidates, buildEntry(scope.OrganizationID, req.WorkerID, date, wage.EntryTypePlucking, req.Plucking, nil))
	}
	if req.HasAdvance() {
		candidates = append(candidates, buildEntry(scope.OrganizationID, req.WorkerID, date, wage.EntryTypeAdvance, nil, req.AdvanceAmount))
	}

	var saved []wage.WageEntry
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		saved = nil
		var fresh []wage.WageEntry
		for _, candidate := range candidates {
			existing, err := s.entryRepo.GetByWorkerDate(ctx, scope.OrganizationID, req.WorkerID, date, candidate.IsAdvance)
			switch {
			case err == nil:
				candidate.ID = existing.ID
				updated, err := s.entryRepo.Update(ctx, candidate)
				if err != nil {
					return err
				}
				saved = append(saved, updated)
			case errors.Is(err, wage.ErrWageEntryNotFound):
				fresh = append(fresh, candidate)
			default:
				return err
			}
		}

		if len(fresh) > 0 {
			created, err := s.entryRepo.CreateBatch(ctx, fresh)
			if err != nil {
				return err
			}
			saved = append(saved, created...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(saved, func(i, j int) bool { return !saved[i].IsAdvance && saved[j].IsAdvance })
	return toEntryResponses(saved), nil
}

func (s *WageServiceImpl) UpdateEntry(ctx context.Context, scope tenant.Scope, req wage.UpdateEntryRequest) ([]wage.WageEntryResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validator.IsValidUUID(req.ID) {
		return nil, wage.ErrWageEntryNotFound
	}

	var saved []wage.WageEntry
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		saved = nil
		current, err := s.entryRepo.GetByID(ctx, req.ID, scope.OrganizationID)
		if err != nil {
			return err
		}

		date := current.Date
		if req.Date != nil {
			date, _ = validator.IsValidDate(*req.Date)
		}
		dateChanged := !wage.Day(date).Equal(wage.Day(current.Date))

		switch {
		case req.Type == current.Type():
			if dateChanged {
				taken, err := s.slotTaken(ctx, scope.OrganizationID, current.WorkerID, date, current.IsAdvance, current.ID)
				if err != nil {
					return err
				}
				if taken {
					return wage.ErrDailyEntryConflict
				}
			}
			next := buildEntry(scope.OrganizationID, current.WorkerID, date, req.Type, req.Plucking, req.AdvanceAmount)
			next.ID = current.ID
			updated, err := s.entryRepo.Update(ctx, next)
			if err != nil {
				return err
			}
			saved = append(saved, updated)

		case req.HasDataFor(current.Type()):
			// Form still holds the stored type's data: keep it and fork a sibling.
			if dateChanged {
				taken, err := s.slotTaken(ctx, scope.OrganizationID, current.WorkerID, date, current.IsAdvance, current.ID)
				if err != nil {
					return err
				}
				if taken {
					return wage.ErrDailyEntryConflict
				}
			}
			kept := buildEntry(scope.OrganizationID, current.WorkerID, date, current.Type(), req.Plucking, req.AdvanceAmount)
			kept.ID = current.ID
			updated, err := s.entryRepo.Update(ctx, kept)
			if err != nil {
				return err
			}
			saved = append(saved, updated)

			sibling := buildEntry(scope.OrganizationID, current.WorkerID, date, req.Type, req.Plucking, req.AdvanceAmount)
			existing, err := s.entryRepo.GetByWorkerDate(ctx, scope.OrganizationID, current.WorkerID, date, sibling.IsAdvance)
			switch {
			case err == nil:
				sibling.ID = existing.ID
				updatedSibling, err := s.entryRepo.Update(ctx, sibling)
				if err != nil {
					return err
				}
				saved = append(saved, updatedSibling)
			case errors.Is(err, wage.ErrWageEntryNotFound):
				created, err := s.entryRepo.CreateBatch(ctx, []wage.WageEntry{sibling})
				if err != nil {
					return err
				}
				saved = append(saved, created...)
			default:
				return err
			}
			slog.Debug("wage entry forked on type change",
				"organization_id", scope.OrganizationID, "entry_id", current.ID, "new_type", req.Type)

		default:
			taken, err := s.slotTaken(ctx, scope.OrganizationID, current.WorkerID, date, req.Type == wage.EntryTypeAdvance, current.ID)
			if err != nil {
				return err
			}
			if taken {
				return wage.ErrDailyEntryConflict
			}
			next := buildEntry(scope.OrganizationID, current.WorkerID, date, req.Type, req.Plucking, req.AdvanceAmount)
			next.ID = current.ID
			updated, err := s.entryRepo.Update(ctx, next)
			if err != nil {
				return err
			}
			saved = append(saved, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toEntryResponses(saved), nil
}

func (s *WageServiceImpl) DeleteEntry(ctx context.Context, scope tenant.Scope, id string) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return wage.ErrWageEntryNotFound
	}
	return s.entryRepo.Delete(ctx, id, scope.OrganizationID)
}

func (s *WageServiceImpl) ListEntries(ctx context.Context, scope tenant.Scope, req wage.ListEntriesRequest) ([]wage.WageEntryResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	entries, err := s.entryRepo.ListByMonth(ctx, scope.OrganizationID, wage.EntryFilter{Month: month, WorkerID: req.WorkerID})
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// ========== SUMMARY ==========

func parseMonth(month string) (time.Time, error) {
	m, ok := validator.IsValidMonth(month)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "month", Message: "must be a valid month (YYYY-MM)"}}
	}
	return m, nil
}

// monthSummary loads the month concurrently and folds it. Names are keyed by worker id.
func (s *WageServiceImpl) monthSummary(ctx context.Context, organizationID string, month time.Time) ([]wage.WorkerSalarySummary, map[string]string, error) {
	var (
		entries []wage.WageEntry
		bonuses []wage.BonusEntry
		marks   []wage.PaymentMark
		workers []worker.Worker
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListByMonth(gCtx, organizationID, wage.EntryFilter{Month: month})
		return err
	})

	g.Go(func() error {
		var err error
		bonuses, err = s.bonusRepo.ListByMonth(gCtx, organizationID, month)
		return err
	})

	g.Go(func() error {
		var err error
		marks, err = s.paymentRepo.ListByMonth(gCtx, organizationID, month)
		return err
	})

	g.Go(func() error {
		var err error
		workers, err = s.workerRepo.List(gCtx, organizationID, worker.WorkerFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}

	return wage.ComputeMonthSummary(entries, bonuses, marks), names, nil
}

func (s *WageServiceImpl) ComputeMonthSummary(ctx context.Context, scope tenant.Scope, month string) ([]wage.WorkerSalarySummaryResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	summaries, names, err := s.monthSummary(ctx, scope.OrganizationID, m)
	if err != nil {
		return nil, err
	}

	result := make([]wage.WorkerSalarySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, toSummaryResponse(summary, names[summary.WorkerID]))
	}
	return result, nil
}

func (s *WageServiceImpl) GetMonthTotals(ctx context.Context, scope tenant.Scope, month string) (wage.MonthTotalsResponse, error) {
	if err := scope.Validate(); err != nil {
		return wage.MonthTotalsResponse{}, err
	}
	m, err := parseMonth(month)
	if err != nil {
		return wage.MonthTotalsResponse{}, err
	}

	summaries, _, err := s.monthSummary(ctx, scope.OrganizationID, m)
	if err != nil {
		return wage.MonthTotalsResponse{}, err
	}

	totals := wage.MonthTotalsResponse{
		Month:          m.Format("2006-01"),
		TotalWorkers:   len(summaries),
		TotalKg:        decimal.Zero,
		TotalEarned:    decimal.Zero,
		TotalAdvance:   decimal.Zero,
		TotalBonus:     decimal.Zero,
		TotalNetSalary: decimal.Zero,
		UnpaidNet:      decimal.Zero,
	}
	for _, summary := range summaries {
		totals.TotalKg = totals.TotalKg.Add(summary.TotalKg)
		totals.TotalEarned = totals.TotalEarned.Add(summary.TotalEarned)
		totals.TotalAdvance = totals.TotalAdvance.Add(summary.TotalAdvance)
		totals.TotalBonus = totals.TotalBonus.Add(summary.Bonus)
		totals.TotalNetSalary = totals.TotalNetSalary.Add(summary.NetSalary)
		if summary.IsPaid {
			totals.PaidCount++
		} else {
			totals.UnpaidCount++
			totals.UnpaidNet = totals.UnpaidNet.Add(summary.NetSalary)
		}
	}
	return totals, nil
}

// ========== BONUS & PAYMENT ==========

func (s *WageServiceImpl) SetBonus(ctx context.Context, scope tenant.Scope, req wage.SetBonusRequest) (wage.BonusResponse, error) {
	if err := scope.Validate(); err != nil {
		return wage.BonusResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return wage.BonusResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	if err := s.ensureWorker(ctx, scope.OrganizationID, req.WorkerID); err != nil {
		return wage.BonusResponse{}, err
	}

	response := wage.BonusResponse{WorkerID: req.WorkerID, Month: month.Format("2006-01"), Amount: decimal.Zero}

	if req.Amount.IsZero() {
		if err := s.bonusRepo.Delete(ctx, scope.OrganizationID, req.WorkerID, month); err != nil {
			return wage.BonusResponse{}, err
		}
		return response, nil
	}

	saved, err := s.bonusRepo.Upsert(ctx, wage.BonusEntry{
		OrganizationID: scope.OrganizationID,
		WorkerID:       req.WorkerID,
		Month:          month,
		Amount:         req.Amount,
	})
	if err != nil {
		return wage.BonusResponse{}, err
	}
	response.Amount = saved.Amount
	return response, nil
}

func (s *WageServiceImpl) TogglePaid(ctx context.Context, scope tenant.Scope, req wage.TogglePaidRequest) (wage.PaymentStatusResponse, error) {
	if err := scope.Validate(); err != nil {
		return wage.PaymentStatusResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return wage.PaymentStatusResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	if err := s.ensureWorker(ctx, scope.OrganizationID, req.WorkerID); err != nil {
		return wage.PaymentStatusResponse{}, err
	}

	response := wage.PaymentStatusResponse{WorkerID: req.WorkerID, Month: month.Format("2006-01")}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.paymentRepo.Get(ctx, scope.OrganizationID, req.WorkerID, month)
		switch {
		case err == nil:
			response.IsPaid = false
			response.PaidAt = nil
			return s.paymentRepo.Delete(ctx, scope.OrganizationID, req.WorkerID, month)
		case errors.Is(err, wage.ErrPaymentNotFound):
			mark := wage.PaymentMark{
				OrganizationID: scope.OrganizationID,
				WorkerID:       req.WorkerID,
				Month:          month,
				PaidAt:         s.now().UTC(),
			}
			if scope.UserID != "" {
				paidBy := scope.UserID
				mark.PaidBy = &paidBy
			}
			created, err := s.paymentRepo.Create(ctx, mark)
			if err != nil {
				return err
			}
			paidAt := created.PaidAt.Format(time.RFC3339)
			response.IsPaid = true
			response.PaidAt = &paidAt
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return wage.PaymentStatusResponse{}, err
	}

	slog.Info("wage payment toggled",
		"organization_id", scope.OrganizationID, "worker_id", req.WorkerID, "month", response.Month, "is_paid", response.IsPaid)
	return response, nil
}

// ========== MAPPERS ==========

func toEntryResponse(e wage.WageEntry) wage.WageEntryResponse {
	return wage.WageEntryResponse{
		ID:               e.ID,
		WorkerID:         e.WorkerID,
		Date:             e.Date.Format("2006-01-02"),
		Type:             string(e.Type()),
		KgPlucked:        e.KgPlucked,
		RatePerKg:        e.RatePerKg,
		ExtraWork:        e.ExtraWork,
		ExtraWorkPayment: e.ExtraWorkPayment,
		IsAdvance:        e.IsAdvance,
		Amount:           e.Amount,
	}
}

func toEntryResponses(entries []wage.WageEntry) []wage.WageEntryResponse {
	result := make([]wage.WageEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toEntryResponse(e))
	}
	return result
}

func toSummaryResponse(s wage.WorkerSalarySummary, name string) wage.WorkerSalarySummaryResponse {
	var paidAt *string
	if s.PaidAt != nil {
		formatted := s.PaidAt.Format(time.RFC3339)
		paidAt = &formatted
	}
	return wage.WorkerSalarySummaryResponse{
		WorkerID:     s.WorkerID,
		WorkerName:   name,
		TotalKg:      s.TotalKg,
		TotalEarned:  s.TotalEarned,
		TotalAdvance: s.TotalAdvance,
		Bonus:        s.Bonus,
		NetSalary:    s.NetSalary,
		DaysWorked:   s.DaysWorked,
		AvgKgPerDay:  s.AvgKgPerDay.Round(3),
		IsPaid:       s.IsPaid,
		PaidAt:       paidAt,
	}
}
