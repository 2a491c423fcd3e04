package request

import (
	"strings"

	"restoredoc/internal/domain/entities"
)

type JobCreateRequest struct {
	ContractorID    string `json:"contractor_id"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	DamageType      string `json:"damage_type" binding:"required"`
	PropertyAddress string `json:"property_address" binding:"required"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
	Notes           string `json:"notes"`
}

func (r JobCreateRequest) ToEntity() entities.Job {
	return entities.Job{
		ContractorID:    strings.TrimSpace(r.ContractorID),
		CustomerName:    r.CustomerName,
		CustomerEmail:   strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(r.CustomerPhone),
		DamageType:      entities.DamageType(r.DamageType),
		PropertyAddress: r.PropertyAddress,
		City:            strings.TrimSpace(r.City),
		State:           strings.ToUpper(strings.TrimSpace(r.State)),
		Zip:             strings.TrimSpace(r.Zip),
		Notes:           r.Notes,
	}
}
