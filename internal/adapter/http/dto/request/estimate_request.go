package request

import (
	"strings"

	"restoredoc/internal/domain/entities"
)

// LineItemRequest needs an explicit unit_price; a pointer keeps a deliberate
// zero apart from a missing field.
type LineItemRequest struct {
	Description string   `json:"description" binding:"required"`
	Quantity    float64  `json:"quantity" binding:"required"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price" binding:"required"`
	Category    string   `json:"category"`
}

// EstimateRequest is an estimate as returned by the analysis endpoint,
// optionally edited by the contractor. Line totals are always recomputed.
type EstimateRequest struct {
	DamageType      string                  `json:"damage_type"`
	Classification  entities.Classification `json:"classification"`
	Assessment      entities.Assessment     `json:"assessment"`
	LineItems       []LineItemRequest       `json:"line_items" binding:"dive"`
	MarkupPercent   float64                 `json:"markup_percent"`
	TotalEstimate   float64                 `json:"total_estimate"`
	LaborRate       string                  `json:"labor_rate"`
	HealthWarnings  []string                `json:"health_warnings"`
	ComplianceNotes []string                `json:"compliance_notes"`
}

func (r EstimateRequest) ToEntity() entities.Estimate {
	items := make([]entities.LineItem, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		item := entities.LineItem{
			Description: strings.TrimSpace(li.Description),
			Quantity:    li.Quantity,
			Unit:        strings.TrimSpace(li.Unit),
			UnitPrice:   *li.UnitPrice,
			Category:    strings.TrimSpace(li.Category),
		}
		item.Recompute()
		items = append(items, item)
	}

	e := entities.Estimate{
		DamageType:      entities.ParseDamageType(r.DamageType),
		Classification:  r.Classification,
		Assessment:      r.Assessment,
		LineItems:       items,
		MarkupPercent:   r.MarkupPercent,
		TotalEstimate:   entities.Round2(r.TotalEstimate),
		LaborRate:       strings.TrimSpace(r.LaborRate),
		HealthWarnings:  append([]string{}, r.HealthWarnings...),
		ComplianceNotes: append([]string{}, r.ComplianceNotes...),
	}
	e.Subtotal = e.LineItemsTotal()
	return e
}

// AdjustmentRequest carries the contractor's re-pricing controls. Omitted
// multipliers leave their bucket unchanged.
type AdjustmentRequest struct {
	Labor         float64  `json:"labor"`
	Days          float64  `json:"days"`
	Materials     float64  `json:"materials"`
	LaborRate     string   `json:"labor_rate"`
	EquipmentDays int      `json:"equipment_days"`
	MarkupPercent *float64 `json:"markup_percent"`
	MarkupPreset  string   `json:"markup_preset"`
}

// PreviewRequest re-prices an estimate that has not been saved yet.
type PreviewRequest struct {
	Estimate   EstimateRequest   `json:"estimate" binding:"required"`
	Adjustment AdjustmentRequest `json:"adjustment"`
}
