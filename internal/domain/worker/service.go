package worker

import (
	"context"

	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
)

type WorkerService interface {
	CreateWorker(ctx context.Context, scope tenant.Scope, req CreateWorkerRequest) (WorkerResponse, error)
	GetWorker(ctx context.Context, scope tenant.Scope, id string) (WorkerResponse, error)
	ListWorkers(ctx context.Context, scope tenant.Scope, filter WorkerFilter) ([]WorkerResponse, error)
	SetActive(ctx context.Context, scope tenant.Scope, req SetActiveRequest) (WorkerResponse, error)
}
