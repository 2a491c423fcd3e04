package interfaces

import (
	"context"
	"restoredoc/internal/domain/entities"
)

//go:generate mockgen -source=job_repository_interface.go -destination=mocks/job_repository_mock.go -package=mock_interfaces

// IJobRepository abstracts persistence for jobs.
type IJobRepository interface {
	Create(ctx context.Context, j entities.Job) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	List(ctx context.Context) ([]entities.Job, error)
}
