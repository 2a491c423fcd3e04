// Package categorizer assigns every line item to exactly one pricing bucket.
package categorizer

import (
	"strings"

	"restoredoc/internal/domain/entities"
)

// Rule maps a set of description keywords to a bucket.
type Rule struct {
	Bucket   entities.Bucket
	Keywords []string
}

func (r Rule) matches(description string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{
		Bucket:   entities.BucketLabor,
		Keywords: []string{"labor", "installation", "removal", "assessment", "setup", "cleaning", "vacuum", "brush"},
	},
	{
		Bucket:   entities.BucketEquipment,
		Keywords: []string{"scrubber", "machine", "rental", "equipment", "dehumidifier", "fogger", "negative", "hepa"},
	},
}

// DefaultSynonyms maps an explicit category tag to a bucket.
var DefaultSynonyms = map[string]entities.Bucket{
	"labor":       entities.BucketLabor,
	"labour":      entities.BucketLabor,
	"equipment":   entities.BucketEquipment,
	"rental":      entities.BucketEquipment,
	"material":    entities.BucketMaterials,
	"materials":   entities.BucketMaterials,
	"supplies":    entities.BucketMaterials,
	"consumables": entities.BucketMaterials,
}

// Categorizer is safe for concurrent use; it holds no mutable state.
type Categorizer struct {
	rules    []Rule
	synonyms map[string]entities.Bucket
	fallback entities.Bucket
}

func New() *Categorizer {
	return NewWithRules(DefaultRules, DefaultSynonyms)
}

func NewWithRules(rules []Rule, synonyms map[string]entities.Bucket) *Categorizer {
	return &Categorizer{rules: rules, synonyms: synonyms, fallback: entities.BucketMaterials}
}

// Bucket classifies one item. An explicit category tag wins over keywords;
// anything unmatched lands in materials.
func (c *Categorizer) Bucket(item entities.LineItem) entities.Bucket {
	if b, ok := c.synonyms[normalize(item.Category)]; ok {
		return b
	}
	desc := normalize(item.Description)
	for _, r := range c.rules {
		if r.matches(desc) {
			return r.Bucket
		}
	}
	return c.fallback
}

// Categorize returns a copy of items with Bucket set on each one.
func (c *Categorizer) Categorize(items []entities.LineItem) []entities.LineItem {
	out := make([]entities.LineItem, len(items))
	for i, it := range items {
		it.Bucket = c.Bucket(it)
		out[i] = it
	}
	return out
}

// Totals sums line totals per bucket.
func (c *Categorizer) Totals(items []entities.LineItem) entities.BucketTotals {
	var totals entities.BucketTotals
	for _, it := range items {
		totals.Add(c.Bucket(it), it.Total)
	}
	totals.Labor = entities.Round2(totals.Labor)
	totals.Equipment = entities.Round2(totals.Equipment)
	totals.Materials = entities.Round2(totals.Materials)
	return totals
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
