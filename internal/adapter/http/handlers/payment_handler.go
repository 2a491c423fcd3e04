package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/usecase"
	"restoredoc/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errEmptyMPPayload = errors.New("mp_payload cannot be empty")

// PaymentHandler records customer payments against approved estimates.
type PaymentHandler struct {
	usecase  usecase.IPaymentUseCase
	mockMode bool
	logger   *zap.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, mockMode bool, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{usecase: uc, mockMode: mockMode, logger: logger}
}

// CreatePaymentByEstimateID godoc
// @Summary      Pay an approved estimate
// @Description  Body is the Mercado Pago payment payload, bare or wrapped as {"mp_payload": {...}}. The amount always comes from the estimate.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        estimate_id  path      string                        true   "Estimate ID"
// @Param        payment      body      request.PaymentCreateRequest  false  "Mercado Pago payload"
// @Success      200          {object}  response.PaymentResponse
// @Failure      400          {object}  pkg.HTTPError
// @Failure      404          {object}  pkg.HTTPError
// @Failure      409          {object}  pkg.HTTPError
// @Router       /payments/{estimate_id} [post]
func (h *PaymentHandler) CreatePaymentByEstimateID(c *gin.Context) {
	estimateID := c.Param("estimate_id")
	log := h.logger.With(zap.String("estimate_id", estimateID))

	mpPayload, err := readMPPayload(c)
	if err != nil {
		if !h.mockMode {
			log.Warn("invalid payment payload", zap.Error(err))
			appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		log.Debug("invalid payload ignored in mock mode", zap.Error(err))
		mpPayload = json.RawMessage("{}")
	}

	created, err := h.usecase.CreateAndApprove(c.Request.Context(), estimateID, mpPayload)
	if err != nil {
		log.Warn("payment create failed", zap.Error(err))
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Info("payment created", zap.String("payment_id", created.ID), zap.String("status", string(created.Status)))

	c.JSON(http.StatusOK, response.FromPayment(created))
}

// GetPaymentByEstimateID godoc
// @Summary      Latest payment of an estimate
// @Tags         payments
// @Produce      json
// @Param        estimate_id  path      string  true  "Estimate ID"
// @Success      200          {object}  response.PaymentResponse
// @Failure      404          {object}  pkg.HTTPError
// @Router       /payments/{estimate_id} [get]
func (h *PaymentHandler) GetPaymentByEstimateID(c *gin.Context) {
	estimateID := c.Param("estimate_id")

	payments, err := h.usecase.ListByEstimateID(c.Request.Context(), estimateID)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if len(payments) == 0 {
		appErr := mapPaymentError(usecase.ErrPaymentNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	c.JSON(http.StatusOK, response.FromPayment(latest))
}

// readMPPayload returns the provider payload from the body, unwrapping the
// optional mp_payload envelope. An empty body yields {}.
func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if s := strings.TrimSpace(string(wrapped)); s == "" || s == "null" {
				return nil, errEmptyMPPayload
			}
			return wrapped, nil
		}
	}
	return json.RawMessage(raw), nil
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentEstimateID), errors.Is(err, usecase.ErrInvalidPaymentID),
		errors.Is(err, usecase.ErrInvalidProviderPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Seller token and payer test user do not match", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateNotApproved):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_APPROVED", "Estimate not approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
