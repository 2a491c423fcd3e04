package response

import (
	"time"

	"restoredoc/internal/domain/adjuster"
	"restoredoc/internal/domain/entities"
)

type AdjustmentResponse struct {
	entities.AdjustmentSummary
	PercentChangeLabel string `json:"percent_change_label"`
}

type EstimateResponse struct {
	EstimateID          string                  `json:"estimate_id"`
	ID                  string                  `json:"id"`
	JobID               string                  `json:"job_id,omitempty"`
	Version             int                     `json:"version,omitempty"`
	IsCurrent           bool                    `json:"is_current"`
	Status              string                  `json:"status"`
	DamageType          string                  `json:"damage_type"`
	Classification      entities.Classification `json:"classification"`
	ClassificationLabel string                  `json:"classification_label,omitempty"`
	Assessment          entities.Assessment     `json:"assessment"`
	LineItems           []entities.LineItem     `json:"line_items"`
	BucketTotals        entities.BucketTotals   `json:"bucket_totals"`
	Subtotal            float64                 `json:"subtotal"`
	MarkupPercent       float64                 `json:"markup_percent"`
	MarkupAmount        float64                 `json:"markup_amount"`
	TotalEstimate       float64                 `json:"total_estimate"`
	LaborRate           string                  `json:"labor_rate,omitempty"`
	HealthWarnings      []string                `json:"health_warnings"`
	ComplianceNotes     []string                `json:"compliance_notes"`
	Adjustment          *AdjustmentResponse     `json:"adjustment,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// FromEstimate maps an estimate; label is the human classification, empty
// when the caller has none.
func FromEstimate(e entities.Estimate, label string) EstimateResponse {
	res := EstimateResponse{
		EstimateID:          e.ID,
		ID:                  e.ID,
		JobID:               e.JobID,
		Version:             e.Version,
		IsCurrent:           e.IsCurrent,
		Status:              string(e.Status),
		DamageType:          string(e.DamageType),
		Classification:      e.Classification,
		ClassificationLabel: label,
		Assessment:          e.Assessment,
		LineItems:           e.LineItems,
		Subtotal:            e.Subtotal,
		MarkupPercent:       e.MarkupPercent,
		MarkupAmount:        e.MarkupAmount,
		TotalEstimate:       e.TotalEstimate,
		LaborRate:           e.LaborRate,
		HealthWarnings:      nonNil(e.HealthWarnings),
		ComplianceNotes:     nonNil(e.ComplianceNotes),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
	if res.LineItems == nil {
		res.LineItems = []entities.LineItem{}
	}
	for _, li := range e.LineItems {
		res.BucketTotals.Add(li.Bucket, li.Total)
	}
	res.BucketTotals.Labor = entities.Round2(res.BucketTotals.Labor)
	res.BucketTotals.Equipment = entities.Round2(res.BucketTotals.Equipment)
	res.BucketTotals.Materials = entities.Round2(res.BucketTotals.Materials)
	if e.Adjustment != nil {
		res.Adjustment = &AdjustmentResponse{
			AdjustmentSummary:  *e.Adjustment,
			PercentChangeLabel: adjuster.FormatPercent(e.Adjustment.PercentChange) + "%",
		}
	}
	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
