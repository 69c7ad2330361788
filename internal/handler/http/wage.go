package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/go-chi/chi/v5"
)

type WageHandler interface {
	// Entries
	ListEntries(w http.ResponseWriter, r *http.Request)
	RecordDailyEntry(w http.ResponseWriter, r *http.Request)
	UpdateEntry(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)

	// Summary
	GetMonthSummary(w http.ResponseWriter, r *http.Request)
	GetMonthTotals(w http.ResponseWriter, r *http.Request)

	// Bonus & payment
	SetBonus(w http.ResponseWriter, r *http.Request)
	TogglePaid(w http.ResponseWriter, r *http.Request)
}

type wageHandlerImpl struct {
	wageService wage.WageService
}

func NewWageHandler(wageService wage.WageService) WageHandler {
	return &wageHandlerImpl{wageService: wageService}
}

// scopeFromRequest returns the scope set by RequireOrganization.
func scopeFromRequest(w http.ResponseWriter, r *http.Request) (tenant.Scope, bool) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		response.HandleError(w, tenant.ErrMissingOrganization)
		return tenant.Scope{}, false
	}
	return scope, true
}

// ========== ENTRIES ==========

func (h *wageHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	req := wage.ListEntriesRequest{Month: r.URL.Query().Get("month")}
	if workerID := r.URL.Query().Get("worker_id"); workerID != "" {
		req.WorkerID = &workerID
	}

	result, err := h.wageService.ListEntries(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *wageHandlerImpl) RecordDailyEntry(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	var req wage.RecordDailyEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.wageService.RecordDailyEntry(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Wage entry saved", result)
}

func (h *wageHandlerImpl) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	var req wage.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.wageService.UpdateEntry(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Wage entry updated", result)
}

func (h *wageHandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	if err := h.wageService.DeleteEntry(r.Context(), scope, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Wage entry deleted", nil)
}

// ========== SUMMARY ==========

func (h *wageHandlerImpl) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.wageService.ComputeMonthSummary(r.Context(), scope, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *wageHandlerImpl) GetMonthTotals(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.wageService.GetMonthTotals(r.Context(), scope, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== BONUS & PAYMENT ==========

func (h *wageHandlerImpl) SetBonus(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	var req wage.SetBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.wageService.SetBonus(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *wageHandlerImpl) TogglePaid(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	var req wage.TogglePaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.wageService.TogglePaid(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
