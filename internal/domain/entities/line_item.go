package entities

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidLineItem = errors.New("invalid line item")

// Bucket is the pricing bucket a line item is adjusted under.
type Bucket string

const (
	BucketLabor     Bucket = "labor"
	BucketEquipment Bucket = "equipment"
	BucketMaterials Bucket = "materials"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketLabor, BucketEquipment, BucketMaterials}

// LineItem is one billable row of an estimate.
//
// Total is always Quantity * UnitPrice rounded to cents; call Recompute after
// changing either operand.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Category    string  `json:"category,omitempty"`
	Bucket      Bucket  `json:"bucket,omitempty"`
}

func (li *LineItem) Recompute() {
	li.Total = Round2(li.Quantity * li.UnitPrice)
}

// Validate rejects rows the pricing engine cannot work with.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidLineItem)
	}
	if li.Quantity <= 0 || math.IsNaN(li.Quantity) || math.IsInf(li.Quantity, 0) {
		return fmt.Errorf("%w: %q quantity must be positive", ErrInvalidLineItem, li.Description)
	}
	if li.UnitPrice < 0 || math.IsNaN(li.UnitPrice) || math.IsInf(li.UnitPrice, 0) {
		return fmt.Errorf("%w: %q unit price must not be negative", ErrInvalidLineItem, li.Description)
	}
	return nil
}

// ValidateLineItems checks every row and reports the first offending index.
func ValidateLineItems(items []LineItem) error {
	for i, li := range items {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func SumTotals(items []LineItem) float64 {
	var sum float64
	for _, li := range items {
		sum += li.Total
	}
	return Round2(sum)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
