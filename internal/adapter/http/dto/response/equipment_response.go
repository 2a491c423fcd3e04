package response

import "restoredoc/internal/domain/equipment"

type EquipmentPlanResponse struct {
	equipment.Plan
	Days       int     `json:"days,omitempty"`
	RentalCost float64 `json:"rental_cost,omitempty"`
}
