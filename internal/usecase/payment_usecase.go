package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"

	"go.uber.org/zap"
)

//go:generate mockgen -source=payment_usecase.go -destination=../adapter/http/handlers/mocks/payment_usecase_mock.go -package=mocks

var (
	ErrPaymentNotFound                = errors.New("payment not found")
	ErrInvalidPaymentID               = errors.New("invalid payment id")
	ErrInvalidPaymentEstimateID       = errors.New("invalid estimate_id")
	ErrInvalidProviderPayload         = errors.New("invalid payment provider payload")
	ErrEstimateNotApproved            = errors.New("estimate not approved")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// SandboxPayer fills the payer block for Mercado Pago test credentials.
type SandboxPayer struct {
	AccessToken string
	Email       string
	UserID      string
}

func (s SandboxPayer) enabled() bool {
	return strings.HasPrefix(strings.TrimSpace(s.AccessToken), "TEST-")
}

// IPaymentUseCase records a customer payment against an approved estimate.
type IPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, estimateID string, payload json.RawMessage) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo         interfaces.IPaymentRepository
	estimateRepo interfaces.IEstimateRepository
	gateway      interfaces.IPaymentGateway
	mockMode     bool
	sandbox      SandboxPayer
	logger       *zap.Logger
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, estimateRepo interfaces.IEstimateRepository, gateway interfaces.IPaymentGateway, mockMode bool, sandbox SandboxPayer, logger *zap.Logger) *PaymentUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentUseCase{
		repo:         repo,
		estimateRepo: estimateRepo,
		gateway:      gateway,
		mockMode:     mockMode,
		sandbox:      sandbox,
		logger:       logger,
	}
}

func (u *PaymentUseCase) CreateAndApprove(ctx context.Context, estimateID string, payload json.RawMessage) (entities.Payment, error) {
	estimateID = strings.TrimSpace(estimateID)
	log := u.logger.With(zap.String("estimate_id", estimateID), zap.Bool("mock", u.mockMode))
	if estimateID == "" {
		return entities.Payment{}, ErrInvalidPaymentEstimateID
	}
	if len(payload) == 0 || !json.Valid(payload) {
		if !u.mockMode {
			log.Warn("payment payload rejected", zap.Int("payload_len", len(payload)))
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		payload = json.RawMessage("{}")
	}
	if u.gateway == nil && !u.mockMode {
		return entities.Payment{}, ErrPaymentGatewayNotConfigured
	}

	est, err := u.estimateRepo.GetByID(ctx, estimateID)
	if err != nil {
		log.Error("estimate load failed", zap.Error(err))
		return entities.Payment{}, err
	}
	if est.ID == "" {
		return entities.Payment{}, ErrEstimateNotFound
	}
	if est.Status != entities.EstimateStatusApproved {
		log.Warn("estimate not approved", zap.String("status", string(est.Status)))
		return entities.Payment{}, ErrEstimateNotApproved
	}

	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil || req == nil {
		if !u.mockMode {
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		req = map[string]any{}
	}
	if !u.mockMode {
		if !hasNonEmptyString(req, "payment_method_id") {
			log.Warn("missing payment_method_id")
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		u.normalizeSandboxPayer(req)
		u.ensurePayerDefaults(req)
		if !hasPayer(req) {
			log.Warn("missing or invalid payer")
			return entities.Payment{}, ErrInvalidProviderPayload
		}
	}
	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = estimateID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Restoration estimate %s v%d", estimateID, est.Version)
	}
	// The stored estimate is the source of truth for the amount.
	req["transaction_amount"] = est.TotalEstimate

	body, err := json.Marshal(req)
	if err != nil {
		return entities.Payment{}, err
	}

	var providerID, providerStatus string
	var providerResp json.RawMessage
	if u.mockMode {
		providerID, providerResp, err = mockProviderResponse(req)
		if err != nil {
			return entities.Payment{}, err
		}
		providerStatus = "approved"
		log.Info("payment gateway skipped")
	} else {
		providerID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, body)
		if err != nil {
			log.Error("payment gateway failed", zap.Error(err))
			return entities.Payment{}, classifyGatewayError(err)
		}
		log.Info("payment gateway success",
			zap.String("provider_payment_id", providerID),
			zap.String("provider_status", providerStatus))
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Warn("provider response unmarshal failed", zap.Error(err))
	}

	p := entities.Payment{
		ID:                 providerID,
		EstimateID:         estimateID,
		Date:               time.Now().UTC(),
		Status:             entities.PaymentStatusFromProvider(providerStatus),
		Amount:             est.TotalEstimate,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Error("payment create failed", zap.String("payment_id", p.ID), zap.Error(err))
		return entities.Payment{}, err
	}
	log.Info("payment recorded", zap.String("payment_id", created.ID), zap.Float64("amount", created.Amount))
	return created, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByEstimateID(ctx context.Context, estimateID string) ([]entities.Payment, error) {
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return nil, ErrInvalidPaymentEstimateID
	}
	return u.repo.ListByEstimateID(ctx, estimateID)
}

func mockProviderResponse(req map[string]any) (string, json.RawMessage, error) {
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp := make(map[string]any, len(req)+5)
	for k, v := range req {
		resp[k] = v
	}
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	b, err := json.Marshal(resp)
	return id, b, err
}

// normalizeSandboxPayer swaps the configured test user id for its email,
// which is what the sandbox accepts.
func (u *PaymentUseCase) normalizeSandboxPayer(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !u.sandbox.enabled() || u.sandbox.UserID == "" || u.sandbox.Email == "" {
		return
	}
	if !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != u.sandbox.UserID {
		return
	}
	payer["email"] = u.sandbox.Email
	delete(payer, "id")
	u.logger.Debug("mapped sandbox payer user id to email")
}

func (u *PaymentUseCase) ensurePayerDefaults(m map[string]any) {
	if m["payer"] == nil {
		m["payer"] = map[string]any{}
	}
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	if hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	switch {
	case u.sandbox.Email != "":
		payer["email"] = u.sandbox.Email
	case u.sandbox.enabled():
		payer["email"] = "test_user_us@testuser.com"
	}
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v)) != ""
}

// classifyGatewayError maps Mercado Pago error bodies onto sentinel errors.
func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found"), strings.Contains(msg, `"code":2002`):
		return ErrPaymentGatewayCustomerNotFound
	case strings.Contains(msg, "invalid users involved"), strings.Contains(msg, `"code":2034`):
		return ErrPaymentGatewayInvalidUsers
	case strings.Contains(msg, `"error":"unauthorized"`), strings.Contains(msg, `"status":401`):
		return ErrPaymentGatewayUnauthorized
	case strings.Contains(msg, `"error":"bad_request"`), strings.Contains(msg, `"status":400`):
		return ErrPaymentGatewayBadRequest
	}
	return err
}
