package worker

import "context"

type WorkerRepository interface {
	Create(ctx context.Context, w Worker) (Worker, error)
	GetByID(ctx context.Context, id string, organizationID string) (Worker, error)
	List(ctx context.Context, organizationID string, filter WorkerFilter) ([]Worker, error)
	SetActive(ctx context.Context, id string, organizationID string, active bool) (Worker, error)
}
