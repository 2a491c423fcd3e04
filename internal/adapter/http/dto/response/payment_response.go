package response

import (
	"time"

	"restoredoc/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID   string    `json:"payment_id"`
	ID          string    `json:"id"`
	EstimateID  string    `json:"estimate_id"`
	PaymentDate time.Time `json:"payment_date"`
	Status      string    `json:"status"`
	Amount      float64   `json:"amount"`

	MPPayloadRaw string                 `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:    p.ID,
		ID:           p.ID,
		EstimateID:   p.EstimateID,
		PaymentDate:  p.Date,
		Status:       string(p.Status),
		Amount:       p.Amount,
		MPPayloadRaw: string(p.ProviderPayloadRaw),
		MPPayload:    p.ProviderPayload,
	}
}
