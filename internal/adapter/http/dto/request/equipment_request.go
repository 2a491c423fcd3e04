package request

import "restoredoc/internal/domain/entities"

// EquipmentPlanRequest sizes equipment for one room. Perimeter overrides the
// floor perimeter for the containment run when set; Days prices the rental.
// Negative measurements fail binding.
type EquipmentPlanRequest struct {
	Length    float64 `json:"length" binding:"gte=0"`
	Width     float64 `json:"width" binding:"gte=0"`
	Height    float64 `json:"height" binding:"required,gt=0"`
	CubicFeet float64 `json:"cubic_feet" binding:"gte=0"`
	Level     int     `json:"level" binding:"required"`
	Perimeter float64 `json:"perimeter" binding:"gte=0"`
	Days      int     `json:"days" binding:"gte=0"`
}

func (r EquipmentPlanRequest) Room() entities.RoomDimensions {
	return entities.RoomDimensions{Length: r.Length, Width: r.Width, Height: r.Height, CubicFeet: r.CubicFeet}
}

func (r EquipmentPlanRequest) PerimeterFeet() float64 {
	if r.Perimeter != 0 {
		return r.Perimeter
	}
	return r.Room().Perimeter()
}
