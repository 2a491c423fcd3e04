package response

import (
	"time"

	"restoredoc/internal/domain/entities"
)

type JobResponse struct {
	JobID           string    `json:"job_id"`
	ID              string    `json:"id"`
	ContractorID    string    `json:"contractor_id,omitempty"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	DamageType      string    `json:"damage_type"`
	PropertyAddress string    `json:"property_address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Zip             string    `json:"zip,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromJob(j entities.Job) JobResponse {
	return JobResponse{
		JobID:           j.ID,
		ID:              j.ID,
		ContractorID:    j.ContractorID,
		CustomerName:    j.CustomerName,
		CustomerEmail:   j.CustomerEmail,
		CustomerPhone:   j.CustomerPhone,
		DamageType:      string(j.DamageType),
		PropertyAddress: j.PropertyAddress,
		City:            j.City,
		State:           j.State,
		Zip:             j.Zip,
		Notes:           j.Notes,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}
