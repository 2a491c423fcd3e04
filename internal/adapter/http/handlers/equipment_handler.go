package handlers

import (
	"errors"
	"net/http"

	request "restoredoc/internal/adapter/http/dto/request"
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/domain/equipment"
	"restoredoc/internal/domain/rules"
	"restoredoc/pkg"

	"github.com/gin-gonic/gin"
)

// EquipmentHandler sizes air scrubbers, negative air and containment for a
// room. It is pure computation, so it talks to the calculator directly.
type EquipmentHandler struct {
	calc *equipment.Calculator
}

func NewEquipmentHandler(calc *equipment.Calculator) *EquipmentHandler {
	return &EquipmentHandler{calc: calc}
}

// PlanEquipment godoc
// @Summary      Size equipment and containment for a room
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        room  body      request.EquipmentPlanRequest  true  "Room and remediation level"
// @Success      200   {object}  response.EquipmentPlanResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /equipment/plan [post]
func (h *EquipmentHandler) PlanEquipment(c *gin.Context) {
	var payload request.EquipmentPlanRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_EQUIPMENT_INPUT", "Height and level are required and measurements must not be negative", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	plan, err := h.calc.PlanRoomWithPerimeter(payload.Room(), payload.PerimeterFeet(), payload.Level)
	if err != nil {
		appErr := mapEquipmentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.EquipmentPlanResponse{
		Plan:       plan,
		Days:       payload.Days,
		RentalCost: h.calc.Rental(plan, payload.Days),
	})
}

func mapEquipmentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, equipment.ErrInvalidGeometry):
		return pkg.NewDomainError("INVALID_GEOMETRY", "Room dimensions must be positive", err, http.StatusBadRequest)
	case errors.Is(err, rules.ErrUnknownLevel):
		return pkg.NewDomainError("INVALID_LEVEL", "Remediation level not recognized by the pricing rules", err, http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
