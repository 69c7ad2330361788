package worker

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
)

type WorkerServiceImpl struct {
	workerRepo worker.WorkerRepository
}

func NewWorkerService(workerRepo worker.WorkerRepository) worker.WorkerService {
	return &WorkerServiceImpl{workerRepo: workerRepo}
}

func toResponse(w worker.Worker) worker.WorkerResponse {
	return worker.WorkerResponse{
		ID:           w.ID,
		Name:         w.Name,
		EmployeeCode: w.EmployeeCode,
		IsActive:     w.IsActive,
	}
}

func (s *WorkerServiceImpl) CreateWorker(ctx context.Context, scope tenant.Scope, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	if err := scope.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	var code *string
	if req.EmployeeCode != nil && !validator.IsEmpty(*req.EmployeeCode) {
		trimmed := strings.ToUpper(strings.TrimSpace(*req.EmployeeCode))
		code = &trimmed
	}

	created, err := s.workerRepo.Create(ctx, worker.Worker{
		OrganizationID: scope.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		EmployeeCode:   code,
		IsActive:       true,
	})
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return toResponse(created), nil
}

func (s *WorkerServiceImpl) GetWorker(ctx context.Context, scope tenant.Scope, id string) (worker.WorkerResponse, error) {
	if err := scope.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return worker.WorkerResponse{}, worker.ErrWorkerNotFound
	}

	w, err := s.workerRepo.GetByID(ctx, id, scope.OrganizationID)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return toResponse(w), nil
}

func (s *WorkerServiceImpl) ListWorkers(ctx context.Context, scope tenant.Scope, filter worker.WorkerFilter) ([]worker.WorkerResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	workers, err := s.workerRepo.List(ctx, scope.OrganizationID, filter)
	if err != nil {
		return nil, err
	}

	result := make([]worker.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		result = append(result, toResponse(w))
	}
	return result, nil
}

func (s *WorkerServiceImpl) SetActive(ctx context.Context, scope tenant.Scope, req worker.SetActiveRequest) (worker.WorkerResponse, error) {
	if err := scope.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return worker.WorkerResponse{}, worker.ErrWorkerNotFound
	}

	w, err := s.workerRepo.SetActive(ctx, req.ID, scope.OrganizationID, req.IsActive)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return toResponse(w), nil
}
