package entities

import (
	"encoding/json"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// Payment is a customer payment against an approved estimate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (estimate_id-index): estimate_id
//
// Provider payload:
//   - ProviderPayloadRaw keeps the original body (JSON) for audit.
//   - ProviderPayload is the parsed form, kept for querying.
type Payment struct {
	ID         string        `json:"id"`
	EstimateID string        `json:"estimate_id"`
	Date       time.Time     `json:"date"`
	Status     PaymentStatus `json:"status"`
	Amount     float64       `json:"amount"`

	ProviderPayloadRaw json.RawMessage        `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}

// PaymentStatusFromProvider maps a Mercado Pago payment status. Anything that
// is neither settled nor refused stays pending.
func PaymentStatusFromProvider(s string) PaymentStatus {
	switch s {
	case "approved", "authorized":
		return PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return PaymentStatusDenied
	}
	return PaymentStatusPending
}
