package vision

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"text/template"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
)

//go:embed prompts/*.txt
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.txt"))

const systemInstruction = "You are an IICRC-certified restoration estimator. Answer with valid JSON only, no prose and no markdown fences."

type promptData struct {
	Region     string
	Tiers      []string
	AirChanges []string
}

// BuildPrompt renders the damage-type prompt with the region's price tiers.
func BuildPrompt(d entities.DamageType, tables rules.Tables) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("no prompt for damage type %q", d)
	}

	data := promptData{Region: tables.Region}
	switch d {
	case entities.DamageTypeWater:
		for _, k := range sortedInts(tables.Water.Categories) {
			t := tables.Water.Categories[k]
			data.Tiers = append(data.Tiers, fmt.Sprintf("Category %d (%s): $%.2f-%.2f/sq ft", k, t.Name, t.PerSqFt.Min, t.PerSqFt.Max))
		}
	case entities.DamageTypeFire:
		names := make([]string, 0, len(tables.Fire.Severities))
		for name := range tables.Fire.Severities {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return tables.Fire.Severities[names[i]].Rank < tables.Fire.Severities[names[j]].Rank
		})
		for _, name := range names {
			t := tables.Fire.Severities[name]
			data.Tiers = append(data.Tiers, fmt.Sprintf("%s: $%.2f-%.2f/sq ft", name, t.PerSqFt.Min, t.PerSqFt.Max))
		}
	case entities.DamageTypeMold:
		for _, k := range sortedInts(tables.Mold.Levels) {
			l := tables.Mold.Levels[k]
			data.Tiers = append(data.Tiers, fmt.Sprintf("Level %d (%s): $%.2f-%.2f/sq ft", k, l.Size, l.PerSqFt.Min, l.PerSqFt.Max))
			data.AirChanges = append(data.AirChanges, fmt.Sprintf("Level %d: %g ACH", k, l.AirChangesPerHour))
		}
	}

	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, string(d)+".txt", data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", d, err)
	}
	return buf.String(), nil
}

func sortedInts[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
