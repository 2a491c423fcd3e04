package entities

import "time"

// EstimateStatus represents the lifecycle of a restoration estimate.
//
// Domain notes:
//   - A new version always starts as a draft.
//   - Only a sent estimate can be approved or rejected by the customer.
//   - Payments are only accepted for approved estimates.

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusApproved EstimateStatus = "approved"
	EstimateStatusRejected EstimateStatus = "rejected"
)

// CanTransitionTo reports whether the status machine allows moving to next.
func (s EstimateStatus) CanTransitionTo(next EstimateStatus) bool {
	switch s {
	case EstimateStatusDraft:
		return next == EstimateStatusSent
	case EstimateStatusSent:
		return next == EstimateStatusApproved || next == EstimateStatusRejected
	case EstimateStatusRejected:
		return next == EstimateStatusSent
	}
	return false
}

// Classification holds the damage-type specific severity scale.
// Zero values mean "not classified".
type Classification struct {
	Condition int    `json:"condition,omitempty"` // mold, 1-3
	Level     int    `json:"level,omitempty"`     // mold, 1-5
	Category  int    `json:"category,omitempty"`  // water, 1-3
	Class     int    `json:"class,omitempty"`     // water, 1-4
	Severity  string `json:"severity,omitempty"`  // fire
}

type RoomDimensions struct {
	Length    float64 `json:"length,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	CubicFeet float64 `json:"cubic_feet,omitempty"`
}

// Volume returns the explicit cubic footage or derives it from the dimensions.
func (r RoomDimensions) Volume() float64 {
	if r.CubicFeet > 0 {
		return r.CubicFeet
	}
	return r.Length * r.Width * r.Height
}

// Perimeter returns the floor perimeter, 0 when the room is not measured.
func (r RoomDimensions) Perimeter() float64 {
	return 2 * (r.Length + r.Width)
}

type MoistureSource struct {
	Type           string `json:"type,omitempty"`
	Description    string `json:"description,omitempty"`
	RepairRequired bool   `json:"repair_required,omitempty"`
}

// Identified reports whether the assessment documents where the water comes from.
func (m MoistureSource) Identified() bool {
	return m.Type != "" || m.Description != ""
}

type Containment struct {
	Type        string  `json:"type,omitempty"`
	PlasticSqFt float64 `json:"plastic_sq_ft,omitempty"`
	ZipperDoors int     `json:"zipper_doors,omitempty"`
}

func (c Containment) Planned() bool {
	return c.Type != "" || c.PlasticSqFt > 0 || c.ZipperDoors > 0
}

type EquipmentPlan struct {
	AirScrubbers  int `json:"air_scrubbers,omitempty"`
	NegativeAir   int `json:"negative_air,omitempty"`
	Dehumidifiers int `json:"dehumidifiers,omitempty"`
	AirMovers     int `json:"air_movers,omitempty"`
	Days          int `json:"days,omitempty"`
}

// Assessment is the site assessment produced alongside the line items.
// The validator inspects a handful of these fields; the rest is carried for display.
type Assessment struct {
	AffectedAreaSqFt    float64        `json:"affected_area_sq_ft,omitempty"`
	Species             []string       `json:"species,omitempty"`
	RiskLevel           string         `json:"risk_level,omitempty"`
	MoistureSource      MoistureSource `json:"moisture_source"`
	Room                RoomDimensions `json:"room"`
	Containment         Containment    `json:"containment"`
	Equipment           EquipmentPlan  `json:"equipment"`
	EstimatedDays       int            `json:"estimated_days,omitempty"`
	PostTestingRequired bool           `json:"post_testing_required,omitempty"`
	Urgency             string         `json:"urgency,omitempty"`
	Notes               string         `json:"notes,omitempty"`
}

// Estimate is one version of a restoration estimate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (job_id-index): job_id
//
// Monetary representation:
//   - Subtotal is the sum of line totals.
//   - TotalEstimate is Subtotal plus markup, raised to any applicable floor.
//     It only ever moves upward during validation.
type Estimate struct {
	ID             string         `json:"id"`
	JobID          string         `json:"job_id"`
	Version        int            `json:"version"`
	IsCurrent      bool           `json:"is_current"`
	Status         EstimateStatus `json:"status"`
	DamageType     DamageType     `json:"damage_type"`
	Classification Classification `json:"classification"`
	Assessment     Assessment     `json:"assessment"`
	LineItems      []LineItem     `json:"line_items"`

	Subtotal      float64 `json:"subtotal"`
	MarkupPercent float64 `json:"markup_percent"`
	MarkupAmount  float64 `json:"markup_amount"`
	TotalEstimate float64 `json:"total_estimate"`

	// LaborRate names the labor rate preset the line items are priced at.
	// Empty means the standard rate.
	LaborRate string `json:"labor_rate,omitempty"`

	HealthWarnings  []string           `json:"health_warnings"`
	ComplianceNotes []string           `json:"compliance_notes"`
	Adjustment      *AdjustmentSummary `json:"adjustment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Estimate) Clone() Estimate {
	out := e
	out.LineItems = append([]LineItem(nil), e.LineItems...)
	out.HealthWarnings = append([]string{}, e.HealthWarnings...)
	out.ComplianceNotes = append([]string{}, e.ComplianceNotes...)
	out.Assessment.Species = append([]string(nil), e.Assessment.Species...)
	if e.Adjustment != nil {
		adj := *e.Adjustment
		out.Adjustment = &adj
	}
	return out
}

// LineItemsTotal sums the line totals, rounded to cents.
func (e Estimate) LineItemsTotal() float64 {
	return SumTotals(e.LineItems)
}

// ApplyMarkup sets Subtotal, MarkupAmount and TotalEstimate from the line items.
func (e *Estimate) ApplyMarkup(percent float64) {
	e.Subtotal = e.LineItemsTotal()
	e.MarkupPercent = percent
	e.MarkupAmount = Round2(e.Subtotal * percent / 100)
	e.TotalEstimate = Round2(e.Subtotal + e.MarkupAmount)
}
