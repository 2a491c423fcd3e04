package interfaces

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_mock.go -package=mock_interfaces

// IPaymentGateway abstracts the external payment provider (Mercado Pago).
//
// The provider response payload is persisted with the payment for audit.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}
