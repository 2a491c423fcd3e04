package interfaces

import (
	"context"
	"restoredoc/internal/domain/entities"
)

//go:generate mockgen -source=estimate_repository_interface.go -destination=mocks/estimate_repository_mock.go -package=mock_interfaces

// IEstimateRepository abstracts persistence for estimate versions.
//
// The estimate service must be able to:
//   - store each saved or adjusted estimate as a new version of its job
//   - flip the is_current flag when a newer version supersedes it
//   - move a version through draft/sent/approved/rejected
//
// Lookups return a zero-value Estimate (empty ID) when nothing matches.
type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByJobID(ctx context.Context, jobID string) ([]entities.Estimate, error)
	SetCurrent(ctx context.Context, id string, current bool) (entities.Estimate, error)
	UpdateStatusByID(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error)
}
