package entities

import "strings"

type DamageType string

const (
	DamageTypeWater DamageType = "water"
	DamageTypeFire  DamageType = "fire"
	DamageTypeMold  DamageType = "mold"
)

func (d DamageType) Valid() bool {
	switch d {
	case DamageTypeWater, DamageTypeFire, DamageTypeMold:
		return true
	}
	return false
}

// ParseDamageType normalizes user input; the zero value is returned for unknown types.
func ParseDamageType(s string) DamageType {
	d := DamageType(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return ""
	}
	return d
}

// BucketTotals holds one amount per pricing bucket.
type BucketTotals struct {
	Labor     float64 `json:"labor"`
	Equipment float64 `json:"equipment"`
	Materials float64 `json:"materials"`
}

func (b *BucketTotals) Add(bucket Bucket, amount float64) {
	switch bucket {
	case BucketLabor:
		b.Labor += amount
	case BucketEquipment:
		b.Equipment += amount
	default:
		b.Materials += amount
	}
}

type Multipliers struct {
	Labor     float64 `json:"labor"`
	Days      float64 `json:"days"`
	Materials float64 `json:"materials"`
}

// AdjustmentSummary records a re-pricing pass for audit and display.
type AdjustmentSummary struct {
	Original      BucketTotals `json:"original"`
	Multipliers   Multipliers  `json:"multipliers"`
	OriginalTotal float64      `json:"original_total"`
	AdjustedTotal float64      `json:"adjusted_total"`
	Difference    float64      `json:"difference"`
	PercentChange float64      `json:"percent_change"`
}
