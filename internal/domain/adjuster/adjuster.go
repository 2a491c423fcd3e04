// Package adjuster re-prices line items with independent labor, equipment
// duration and materials multipliers.
package adjuster

import (
	"fmt"
	"math"
	"strings"

	"restoredoc/internal/domain/categorizer"
	"restoredoc/internal/domain/entities"
)

// Multiplier bounds. Setters clamp into these ranges silently.
const (
	MinLaborMultiplier     = 0.5
	MaxLaborMultiplier     = 2.0
	MinDaysMultiplier      = 0.33
	MaxDaysMultiplier      = 3.0
	MinMaterialsMultiplier = 0.8
	MaxMaterialsMultiplier = 1.5
)

// Result is the outcome of one adjustment pass.
type Result struct {
	Items   []entities.LineItem        `json:"line_items"`
	Summary entities.AdjustmentSummary `json:"summary"`
}

// Adjuster holds the multipliers for one editing session. It is not safe for
// concurrent mutation; create one per session.
type Adjuster struct {
	categorizer *categorizer.Categorizer
	labor       float64
	days        float64
	materials   float64
}

func New(c *categorizer.Categorizer) *Adjuster {
	if c == nil {
		c = categorizer.New()
	}
	return &Adjuster{categorizer: c, labor: 1, days: 1, materials: 1}
}

func (a *Adjuster) SetLaborMultiplier(v float64) {
	a.labor = clamp(v, MinLaborMultiplier, MaxLaborMultiplier)
}

func (a *Adjuster) SetDaysMultiplier(v float64) {
	a.days = clamp(v, MinDaysMultiplier, MaxDaysMultiplier)
}

func (a *Adjuster) SetMaterialsMultiplier(v float64) {
	a.materials = clamp(v, MinMaterialsMultiplier, MaxMaterialsMultiplier)
}

// SetLaborRate derives the labor multiplier from switching the hourly rate
// the estimate was priced at to a new one.
func (a *Adjuster) SetLaborRate(from, to float64) {
	if from <= 0 || to <= 0 {
		return
	}
	a.SetLaborMultiplier(to / from)
}

// SetEquipmentDays derives the days multiplier from a change in rental duration.
func (a *Adjuster) SetEquipmentDays(from, to int) {
	if from <= 0 || to <= 0 {
		return
	}
	a.SetDaysMultiplier(float64(to) / float64(from))
}

func (a *Adjuster) Multipliers() entities.Multipliers {
	return entities.Multipliers{Labor: a.labor, Days: a.days, Materials: a.materials}
}

// Adjust re-prices a copy of items. Items must already be validated.
func (a *Adjuster) Adjust(items []entities.LineItem) Result {
	out := make([]entities.LineItem, len(items))
	var original entities.BucketTotals
	var originalTotal, adjustedTotal float64

	for i, it := range items {
		it.Bucket = a.categorizer.Bucket(it)
		original.Add(it.Bucket, it.Total)
		originalTotal += it.Total

		switch it.Bucket {
		case entities.BucketLabor:
			it.UnitPrice = scalePrice(it.UnitPrice, a.labor)
		case entities.BucketEquipment:
			if a.days != 1 && IsDayBased(it.Unit) {
				it.Quantity = math.Max(1, math.Round(it.Quantity*a.days))
			}
		case entities.BucketMaterials:
			it.UnitPrice = scalePrice(it.UnitPrice, a.materials)
		}
		it.Recompute()
		adjustedTotal += it.Total
		out[i] = it
	}

	original.Labor = entities.Round2(original.Labor)
	original.Equipment = entities.Round2(original.Equipment)
	original.Materials = entities.Round2(original.Materials)
	originalTotal = entities.Round2(originalTotal)
	adjustedTotal = entities.Round2(adjustedTotal)

	return Result{
		Items: out,
		Summary: entities.AdjustmentSummary{
			Original:      original,
			Multipliers:   a.Multipliers(),
			OriginalTotal: originalTotal,
			AdjustedTotal: adjustedTotal,
			Difference:    entities.Round2(adjustedTotal - originalTotal),
			PercentChange: PercentChange(originalTotal, adjustedTotal),
		},
	}
}

// scalePrice multiplies a unit price and rounds it to cents. A multiplier of
// 1 leaves the price untouched.
func scalePrice(price, multiplier float64) float64 {
	if multiplier == 1 {
		return price
	}
	return entities.Round2(price * multiplier)
}

// IsDayBased reports whether a unit label denotes a rental duration.
// "daily" needs its own match since it does not contain "day".
func IsDayBased(unit string) bool {
	u := strings.ToLower(unit)
	return strings.Contains(u, "day") || strings.Contains(u, "daily")
}

// PercentChange is 0 when original is 0.
func PercentChange(original, adjusted float64) float64 {
	if original == 0 {
		return 0
	}
	return (adjusted - original) / original * 100
}

// FormatPercent renders a percent change with one decimal.
func FormatPercent(p float64) string {
	if p == 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", p)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(lo, math.Min(hi, v))
}
