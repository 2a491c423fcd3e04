package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"restoredoc/internal/domain/entities"
	mock_interfaces "restoredoc/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

const visaWithPayer = `{"payment_method_id":"visa","payer":{"email":"x@test.com"}}`

func approvedEstimate() entities.Estimate {
	return entities.Estimate{ID: "est-1", Version: 2, Status: entities.EstimateStatusApproved, TotalEstimate: 2139.5}
}

type paymentFixture struct {
	uc        *PaymentUseCase
	payments  *mock_interfaces.MockIPaymentRepository
	estimates *mock_interfaces.MockIEstimateRepository
	gateway   *mock_interfaces.MockIPaymentGateway
}

// newPaymentFixture wires mocks into a PaymentUseCase. In mock mode no
// gateway is passed, matching how the API wires it.
func newPaymentFixture(t *testing.T, mockMode bool, sandbox SandboxPayer) paymentFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := paymentFixture{
		payments:  mock_interfaces.NewMockIPaymentRepository(ctrl),
		estimates: mock_interfaces.NewMockIEstimateRepository(ctrl),
	}
	if mockMode {
		f.uc = NewPaymentUseCase(f.payments, f.estimates, nil, true, sandbox, nil)
		return f
	}
	f.gateway = mock_interfaces.NewMockIPaymentGateway(ctrl)
	f.uc = NewPaymentUseCase(f.payments, f.estimates, f.gateway, false, sandbox, nil)
	return f
}

func (f paymentFixture) pay(payload string) (entities.Payment, error) {
	var raw json.RawMessage
	if payload != "" {
		raw = json.RawMessage(payload)
	}
	return f.uc.CreateAndApprove(context.Background(), "est-1", raw)
}

func TestPaymentUseCase_CreateAndApprove_RejectsBadInput(t *testing.T) {
	bare := NewPaymentUseCase(nil, nil, nil, false, SandboxPayer{}, nil)

	cases := []struct {
		name       string
		estimateID string
		payload    json.RawMessage
		want       error
	}{
		{name: "blank estimate id", estimateID: " ", payload: json.RawMessage(`{}`), want: ErrInvalidPaymentEstimateID},
		{name: "no payload", estimateID: "est-1", want: ErrInvalidProviderPayload},
		{name: "truncated json", estimateID: "est-1", payload: json.RawMessage(`{`), want: ErrInvalidProviderPayload},
		{name: "no gateway outside mock mode", estimateID: "est-1", payload: json.RawMessage(`{"payment_method_id":"visa"}`), want: ErrPaymentGatewayNotConfigured},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := bare.CreateAndApprove(context.Background(), tc.estimateID, tc.payload); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPaymentUseCase_CreateAndApprove_RequiresApprovedEstimate(t *testing.T) {
	cases := []struct {
		name string
		est  entities.Estimate
		want error
	}{
		{name: "unknown estimate", est: entities.Estimate{}, want: ErrEstimateNotFound},
		{name: "draft", est: entities.Estimate{ID: "est-1", Status: entities.EstimateStatusDraft}, want: ErrEstimateNotApproved},
		{name: "sent but not approved", est: entities.Estimate{ID: "est-1", Status: entities.EstimateStatusSent}, want: ErrEstimateNotApproved},
		{name: "rejected", est: entities.Estimate{ID: "est-1", Status: entities.EstimateStatusRejected}, want: ErrEstimateNotApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture(t, false, SandboxPayer{})
			f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(tc.est, nil)

			if _, err := f.pay(`{"payment_method_id":"visa"}`); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("lookup failure passes through", func(t *testing.T) {
		f := newPaymentFixture(t, false, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("db"))

		if _, err := f.pay(`{"payment_method_id":"visa"}`); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("mock mode checks status too", func(t *testing.T) {
		f := newPaymentFixture(t, true, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{ID: "est-1", Status: entities.EstimateStatusSent}, nil)

		if _, err := f.pay(""); !errors.Is(err, ErrEstimateNotApproved) {
			t.Fatalf("expected ErrEstimateNotApproved, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateAndApprove_ProviderPayload(t *testing.T) {
	t.Run("payment method required", func(t *testing.T) {
		f := newPaymentFixture(t, false, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)

		if _, err := f.pay(`{"payer":{"email":"x@test.com"}}`); !errors.Is(err, ErrInvalidProviderPayload) {
			t.Fatalf("expected ErrInvalidProviderPayload, got %v", err)
		}
	})

	t.Run("payer required with a live token", func(t *testing.T) {
		f := newPaymentFixture(t, false, SandboxPayer{AccessToken: "APP_USR-live"})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)

		if _, err := f.pay(`{"payment_method_id":"visa"}`); !errors.Is(err, ErrInvalidProviderPayload) {
			t.Fatalf("expected ErrInvalidProviderPayload, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateAndApprove_GatewayErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "customer not found", err: errors.New(`{"code":2002}`), want: ErrPaymentGatewayCustomerNotFound},
		{name: "invalid users", err: errors.New(`invalid users involved`), want: ErrPaymentGatewayInvalidUsers},
		{name: "unauthorized", err: errors.New(`{"error":"unauthorized"}`), want: ErrPaymentGatewayUnauthorized},
		{name: "bad request", err: errors.New(`{"status":400}`), want: ErrPaymentGatewayBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture(t, false, SandboxPayer{})
			f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
			f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, tc.err)

			if _, err := f.pay(visaWithPayer); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("unclassified error passes through", func(t *testing.T) {
		f := newPaymentFixture(t, false, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New("boom"))

		if _, err := f.pay(visaWithPayer); err == nil || err.Error() != "boom" {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateAndApprove_Success(t *testing.T) {
	sandbox := SandboxPayer{AccessToken: "TEST-token", UserID: "123", Email: "sandbox@test.com"}

	cases := []struct {
		providerStatus string
		providerResp   string
		want           entities.PaymentStatus
	}{
		{providerStatus: "approved", providerResp: `{"id":123}`, want: entities.PaymentStatusApproved},
		{providerStatus: "rejected", providerResp: `{"id":123}`, want: entities.PaymentStatusDenied},
		{providerStatus: "in_process", providerResp: `{"id":123}`, want: entities.PaymentStatusPending},
		{providerStatus: "approved", providerResp: `{`, want: entities.PaymentStatusApproved},
	}
	for _, tc := range cases {
		t.Run(tc.providerStatus+" "+tc.providerResp, func(t *testing.T) {
			f := newPaymentFixture(t, false, sandbox)
			f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)

			f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
					var sent struct {
						ExternalReference string         `json:"external_reference"`
						Description       string         `json:"description"`
						TransactionAmount float64        `json:"transaction_amount"`
						Payer             map[string]any `json:"payer"`
					}
					if err := json.Unmarshal(payload, &sent); err != nil {
						t.Fatalf("gateway received invalid json: %v", err)
					}
					if sent.ExternalReference != "est-1" || sent.Description != "Restoration estimate est-1 v2" {
						t.Fatalf("estimate reference missing: %+v", sent)
					}
					if sent.TransactionAmount != 2139.5 {
						t.Fatalf("amount must come from the estimate, got %v", sent.TransactionAmount)
					}
					if sent.Payer["email"] != "sandbox@test.com" || sent.Payer["id"] != nil {
						t.Fatalf("sandbox payer not applied: %v", sent.Payer)
					}
					return "pay-1", tc.providerStatus, json.RawMessage(tc.providerResp), nil
				},
			)
			f.payments.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Payment{})).DoAndReturn(
				func(_ context.Context, p entities.Payment) (entities.Payment, error) {
					if p.ID != "pay-1" || p.EstimateID != "est-1" || p.Status != tc.want || p.Amount != 2139.5 || p.Date.IsZero() {
						t.Fatalf("unexpected payment: %+v", p)
					}
					return p, nil
				},
			)

			res, err := f.pay(`{"payment_method_id":"visa","transaction_amount":1,"payer":{"id":"123"}}`)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ID != "pay-1" {
				t.Fatalf("unexpected payment id %s", res.ID)
			}
		})
	}

	t.Run("mock mode records a synthetic approval", func(t *testing.T) {
		f := newPaymentFixture(t, true, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		f.payments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.ID == "" || p.Status != entities.PaymentStatusApproved {
					t.Fatalf("unexpected payment: %+v", p)
				}
				if p.ProviderPayload["status"] != "approved" || p.ProviderPayload["transaction_amount"] != float64(2139.5) {
					t.Fatalf("unexpected mock response: %v", p.ProviderPayload)
				}
				return p, nil
			},
		)

		if _, err := f.pay(""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("store failure passes through", func(t *testing.T) {
		f := newPaymentFixture(t, true, SandboxPayer{})
		f.estimates.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		f.payments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Payment{}, errors.New("db"))

		if _, err := f.pay(`{}`); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_Queries(t *testing.T) {
	bare := NewPaymentUseCase(nil, nil, nil, false, SandboxPayer{}, nil)

	if _, err := bare.GetByID(context.Background(), " "); !errors.Is(err, ErrInvalidPaymentID) {
		t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
	}
	if _, err := bare.ListByEstimateID(context.Background(), ""); !errors.Is(err, ErrInvalidPaymentEstimateID) {
		t.Fatalf("expected ErrInvalidPaymentEstimateID, got %v", err)
	}

	f := newPaymentFixture(t, true, SandboxPayer{})
	f.payments.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.Payment{}, nil)
	if _, err := f.uc.GetByID(context.Background(), "pay-1"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	f.payments.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return([]entities.Payment{{ID: "pay-1"}}, nil)
	list, err := f.uc.ListByEstimateID(context.Background(), " est-1 ")
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected result: %v %v", list, err)
	}
}
