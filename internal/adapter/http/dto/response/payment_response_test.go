package response

import (
	"encoding/json"
	"testing"
	"time"

	"restoredoc/internal/domain/entities"
)

func TestFromPayment(t *testing.T) {
	now := time.Now().UTC()
	payload := map[string]interface{}{"a": "b"}
	raw := json.RawMessage(`{"id":123}`)

	p := entities.Payment{
		ID:                 "pay-1",
		EstimateID:         "est-1",
		Date:               now,
		Status:             entities.PaymentStatusApproved,
		Amount:             2500,
		ProviderPayloadRaw: raw,
		ProviderPayload:    payload,
	}

	res := FromPayment(p)
	if res.ID != "pay-1" || res.PaymentID != "pay-1" {
		t.Fatalf("unexpected ids: %+v", res)
	}
	if res.EstimateID != "est-1" || res.Status != "approved" || res.Amount != 2500 {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if !res.PaymentDate.Equal(now) {
		t.Fatalf("unexpected date: %+v", res)
	}
	if res.MPPayloadRaw != string(raw) || res.MPPayload["a"] != "b" {
		t.Fatalf("unexpected payload: %+v", res)
	}
}

func TestFromJob(t *testing.T) {
	res := FromJob(entities.Job{ID: "job-1", CustomerName: "Pat", DamageType: entities.DamageTypeFire, City: "York", State: "PA"})
	if res.JobID != "job-1" || res.DamageType != "fire" || res.City != "York" {
		t.Fatalf("unexpected job response: %+v", res)
	}
}
