package interfaces

import (
	"context"
	"restoredoc/internal/domain/entities"
)

//go:generate mockgen -source=payment_repository_interface.go -destination=mocks/payment_repository_mock.go -package=mock_interfaces

// IPaymentRepository abstracts persistence for Payment.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.Payment, error)
}
