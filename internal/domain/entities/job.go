package entities

import "time"

// Job is a customer property visit that owns one or more estimate versions.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (contractor_id-index): contractor_id
type Job struct {
	ID              string     `json:"id"`
	ContractorID    string     `json:"contractor_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email,omitempty"`
	CustomerPhone   string     `json:"customer_phone,omitempty"`
	DamageType      DamageType `json:"damage_type"`
	PropertyAddress string     `json:"property_address"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Zip             string     `json:"zip,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
