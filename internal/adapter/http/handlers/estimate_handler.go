package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	request "restoredoc/internal/adapter/http/dto/request"
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/domain/assessment"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase"
	"restoredoc/pkg"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

var (
	errInvalidEstimatePayload   = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)
	errInvalidAdjustmentPayload = pkg.NewDomainErrorSimple("INVALID_ADJUSTMENT", "Invalid adjustment payload", http.StatusBadRequest)
)

// EstimateHandler serves estimate validation, versioning and the customer
// lifecycle.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
	logger  *zap.Logger
}

func NewEstimateHandler(uc usecase.IEstimateUseCase, logger *zap.Logger) *EstimateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateHandler{usecase: uc, logger: logger}
}

// ValidateEstimate godoc
// @Summary      Validate an unsaved estimate
// @Description  Applies floor pricing, health warnings and compliance notes. Accepts the estimate shape returned by the API or the vision model's camelCase shape.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        estimate  body      request.EstimateRequest  true  "Estimate"
// @Success      200       {object}  response.EstimateResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      422       {object}  pkg.HTTPError
// @Router       /estimates/validate [post]
func (h *EstimateHandler) ValidateEstimate(c *gin.Context) {
	e, err := bindEstimate(c)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	validated, err := h.usecase.Validate(c.Request.Context(), e)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, h.toResponse(validated))
}

// PreviewEstimate godoc
// @Summary      Re-price an unsaved estimate
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        preview  body      request.PreviewRequest  true  "Estimate and adjustment"
// @Success      200      {object}  response.EstimateResponse
// @Failure      400      {object}  pkg.HTTPError
// @Router       /estimates/preview [post]
func (h *EstimateHandler) PreviewEstimate(c *gin.Context) {
	var payload request.PreviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	preview, err := h.usecase.Preview(c.Request.Context(), payload.Estimate.ToEntity(), toAdjustmentInput(payload.Adjustment))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, h.toResponse(preview))
}

// SaveEstimate godoc
// @Summary      Save an estimate as the job's next version
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id        path      string                   true  "Job ID"
// @Param        estimate  body      request.EstimateRequest  true  "Estimate"
// @Success      201       {object}  response.EstimateResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      404       {object}  pkg.HTTPError
// @Router       /jobs/{id}/estimates [post]
func (h *EstimateHandler) SaveEstimate(c *gin.Context) {
	e, err := bindEstimate(c)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	created, err := h.usecase.SaveEstimate(c.Request.Context(), c.Param("id"), e)
	if err != nil {
		h.logger.Warn("save estimate failed", zap.String("job_id", c.Param("id")), zap.Error(err))
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(created))
}

// ListJobEstimates godoc
// @Summary      List every estimate version of a job
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {array}   response.EstimateResponse
// @Router       /jobs/{id}/estimates [get]
func (h *EstimateHandler) ListJobEstimates(c *gin.Context) {
	list, err := h.usecase.ListByJobID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	out := make([]response.EstimateResponse, 0, len(list))
	for _, e := range list {
		out = append(out, h.toResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// GetCurrentEstimate godoc
// @Summary      Get the current estimate version of a job
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /jobs/{id}/estimates/current [get]
func (h *EstimateHandler) GetCurrentEstimate(c *gin.Context) {
	h.respondWith(c, http.StatusOK, h.usecase.GetCurrentByJobID)
}

// GetEstimate godoc
// @Summary      Get an estimate version
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /estimates/{id} [get]
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	h.respondWith(c, http.StatusOK, h.usecase.GetByID)
}

// ExportEstimateText godoc
// @Summary      Plain-text copy of an estimate
// @Tags         estimates
// @Produce      plain
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {string}  string
// @Failure      404  {object}  pkg.HTTPError
// @Router       /estimates/{id}/text [get]
func (h *EstimateHandler) ExportEstimateText(c *gin.Context) {
	e, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.String(http.StatusOK, response.EstimateText(e, h.usecase.Describe(e)))
}

// AdjustEstimate godoc
// @Summary      Re-price an estimate into a new version
// @Description  Multipliers are clamped (labor 0.5-2.0, days 0.33-3.0, materials 0.8-1.5); floors still apply afterwards.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id          path      string                     true  "Estimate ID"
// @Param        adjustment  body      request.AdjustmentRequest  true  "Adjustment"
// @Success      201         {object}  response.EstimateResponse
// @Failure      400         {object}  pkg.HTTPError
// @Failure      409         {object}  pkg.HTTPError
// @Router       /estimates/{id}/adjust [post]
func (h *EstimateHandler) AdjustEstimate(c *gin.Context) {
	var payload request.AdjustmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidAdjustmentPayload.HTTPStatus, errInvalidAdjustmentPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.AdjustEstimate(c.Request.Context(), c.Param("id"), toAdjustmentInput(payload))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(created))
}

// SendEstimate godoc
// @Summary      Mark an estimate as sent to the customer
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /estimates/{id}/send [patch]
func (h *EstimateHandler) SendEstimate(c *gin.Context) {
	h.respondWith(c, http.StatusOK, h.usecase.Send)
}

// ApproveEstimate godoc
// @Summary      Record the customer's approval
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /estimates/{id}/approve [patch]
func (h *EstimateHandler) ApproveEstimate(c *gin.Context) {
	h.respondWith(c, http.StatusOK, h.usecase.Approve)
}

// RejectEstimate godoc
// @Summary      Record the customer's rejection
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /estimates/{id}/reject [patch]
func (h *EstimateHandler) RejectEstimate(c *gin.Context) {
	h.respondWith(c, http.StatusOK, h.usecase.Reject)
}

func (h *EstimateHandler) respondWith(
	c *gin.Context,
	status int,
	fetch func(ctx context.Context, id string) (entities.Estimate, error),
) {
	e, err := fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(status, h.toResponse(e))
}

func (h *EstimateHandler) toResponse(e entities.Estimate) response.EstimateResponse {
	return response.FromEstimate(e, h.usecase.Describe(e))
}

// bindEstimate accepts either the API's snake_case estimate or the vision
// model's camelCase assessment, told apart by the line item key.
func bindEstimate(c *gin.Context) (entities.Estimate, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return entities.Estimate{}, errInvalidEstimatePayload
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return entities.Estimate{}, errInvalidEstimatePayload
	}
	if _, ok := keys["lineItems"]; ok {
		return assessment.Decode(raw, "")
	}

	var payload request.EstimateRequest
	if err := binding.JSON.BindBody(raw, &payload); err != nil {
		return entities.Estimate{}, errInvalidEstimatePayload
	}
	return payload.ToEntity(), nil
}

func toAdjustmentInput(r request.AdjustmentRequest) usecase.AdjustmentInput {
	return usecase.AdjustmentInput{
		LaborMultiplier:     r.Labor,
		DaysMultiplier:      r.Days,
		MaterialsMultiplier: r.Materials,
		LaborRate:           r.LaborRate,
		EquipmentDays:       r.EquipmentDays,
		MarkupPercent:       r.MarkupPercent,
		MarkupPreset:        r.MarkupPreset,
	}
}

func mapEstimateError(err error) *pkg.AppError {
	var appErr *pkg.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidJobID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidEstimate), errors.Is(err, entities.ErrInvalidLineItem), errors.Is(err, assessment.ErrMalformedPayload):
		return pkg.NewDomainError("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidDamageType), errors.Is(err, assessment.ErrUnknownDamageType):
		return pkg.NewDomainErrorSimple("INVALID_DAMAGE_TYPE", "Damage type must be water, fire or mold", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidAdjustment):
		return pkg.NewDomainError("INVALID_ADJUSTMENT", "Invalid adjustment", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidClassification):
		return pkg.NewDomainError("INVALID_CLASSIFICATION", "Classification not recognized by the pricing rules", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainError("INVALID_STATUS_TRANSITION", "Estimate status does not allow this change", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateNotCurrent):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_CURRENT", "Only the current estimate version can change status", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateLocked):
		return pkg.NewDomainErrorSimple("ESTIMATE_LOCKED", "Approved estimates cannot be re-priced", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
