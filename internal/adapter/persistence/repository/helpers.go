package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"restoredoc/internal/domain/entities"
)

// estimateDocument is the nested part of an estimate, stored as one JSON
// attribute/column so both stores share a single encoding.
type estimateDocument struct {
	Classification  entities.Classification     `json:"classification"`
	Assessment      entities.Assessment         `json:"assessment"`
	LineItems       []entities.LineItem         `json:"line_items"`
	HealthWarnings  []string                    `json:"health_warnings"`
	ComplianceNotes []string                    `json:"compliance_notes"`
	Adjustment      *entities.AdjustmentSummary `json:"adjustment,omitempty"`
	LaborRate       string                      `json:"labor_rate,omitempty"`
}

func encodeEstimateDocument(e entities.Estimate) (string, error) {
	b, err := json.Marshal(estimateDocument{
		Classification:  e.Classification,
		Assessment:      e.Assessment,
		LineItems:       e.LineItems,
		HealthWarnings:  e.HealthWarnings,
		ComplianceNotes: e.ComplianceNotes,
		Adjustment:      e.Adjustment,
		LaborRate:       e.LaborRate,
	})
	if err != nil {
		return "", fmt.Errorf("encode estimate %s: %w", e.ID, err)
	}
	return string(b), nil
}

func decodeEstimateDocument(raw string, e *entities.Estimate) error {
	if raw == "" {
		return nil
	}
	var doc estimateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decode estimate %s: %w", e.ID, err)
	}
	e.Classification = doc.Classification
	e.Assessment = doc.Assessment
	e.LineItems = doc.LineItems
	e.HealthWarnings = nonNil(doc.HealthWarnings)
	e.ComplianceNotes = nonNil(doc.ComplianceNotes)
	e.Adjustment = doc.Adjustment
	e.LaborRate = doc.LaborRate
	return nil
}

func parsePayload(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	return parsed
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func sortByVersion(list []entities.Estimate) {
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
}

func sortJobsNewestFirst(list []entities.Job) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
