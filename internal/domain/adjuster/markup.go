package adjuster

import (
	"math"

	"restoredoc/internal/domain/entities"
)

const (
	MinMarkupPercent = 0.0
	MaxMarkupPercent = 100.0
)

// Markup is the overhead applied on top of the line-item subtotal.
type Markup struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
	Total   float64 `json:"total"`
}

// ApplyMarkup clamps percent into [0, 100] and returns the marked-up total.
func ApplyMarkup(subtotal, percent float64) Markup {
	if math.IsNaN(percent) {
		percent = 0
	}
	p := math.Max(MinMarkupPercent, math.Min(MaxMarkupPercent, percent))
	amount := entities.Round2(subtotal * p / 100)
	return Markup{
		Percent: p,
		Amount:  amount,
		Total:   entities.Round2(subtotal + amount),
	}
}
