// Package rules holds the pricing and compliance reference data for one
// service region. Tables are plain values: build one with YorkPA or Load and
// hand it to each component at construction.
package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"restoredoc/internal/domain/entities"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownTier     = errors.New("unknown severity tier")
	ErrUnknownLevel    = errors.New("unknown contamination level")
	ErrUnknownSeverity = errors.New("unknown fire severity")
)

type PriceRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Tier is one step of a damage-type severity scale.
type Tier struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Rank        int        `yaml:"rank,omitempty"`
	PerSqFt     PriceRange `yaml:"per_sq_ft"`
}

type MoldCondition struct {
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
	SporeCount string `yaml:"spore_count"`
	Action     string `yaml:"action"`
}

type MoldLevel struct {
	Name              string     `yaml:"name"`
	Size              string     `yaml:"size"`
	AirChangesPerHour float64    `yaml:"ach"`
	PerSqFt           PriceRange `yaml:"per_sq_ft"`
}

type MoldRules struct {
	Conditions map[int]MoldCondition `yaml:"conditions"`
	Levels     map[int]MoldLevel     `yaml:"levels"`
}

type WaterRules struct {
	Categories map[int]Tier `yaml:"categories"`
	Classes    map[int]Tier `yaml:"classes"`
}

type FireRules struct {
	Severities map[string]Tier `yaml:"severities"`
}

// Species is the risk entry for an identified mold species or hazardous material.
type Species struct {
	CommonName     string  `yaml:"common_name"`
	Toxicity       string  `yaml:"toxicity"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	SporeThreshold string  `yaml:"spore_threshold"`
	ForcesMinimum  bool    `yaml:"forces_minimum"`
	MinimumCharge  float64 `yaml:"minimum_charge,omitempty"`
	HealthWarning  string  `yaml:"health_warning,omitempty"`
	RequiresPRV    bool    `yaml:"requires_prv,omitempty"`
	Advisory       string  `yaml:"advisory,omitempty"`
}

// TierMinimum is a floor charge for one (damage type, tier) pair.
type TierMinimum struct {
	DamageType entities.DamageType `yaml:"damage_type"`
	Tier       string              `yaml:"tier"`
	Amount     float64             `yaml:"amount"`
	Note       string              `yaml:"note"`
}

type EquipmentRules struct {
	CFMPerUnit              float64            `yaml:"cfm_per_unit"`
	NegativeAirExchangeRate float64            `yaml:"negative_air_exchange_rate"`
	NegativeAirCFMPerUnit   float64            `yaml:"negative_air_cfm_per_unit"`
	ContainmentWasteFactor  float64            `yaml:"containment_waste_factor"`
	DoorSpacingFeet         float64            `yaml:"door_spacing_feet"`
	PlasticCostPerSqFt      float64            `yaml:"plastic_cost_per_sq_ft"`
	ZipperDoorCost          float64            `yaml:"zipper_door_cost"`
	DailyRates              map[string]float64 `yaml:"daily_rates"`
}

type ComplianceNotes struct {
	NoContainment    string `yaml:"no_containment"`
	NoAirScrubber    string `yaml:"no_air_scrubber"`
	NoTesting        string `yaml:"no_testing"`
	QuickTimeline    string `yaml:"quick_timeline"`
	NoMoistureSource string `yaml:"no_moisture_source"`
}

type ComplianceRules struct {
	ContainmentAreaSqFt      float64         `yaml:"containment_area_sq_ft"`
	AirScrubbingMinCondition int             `yaml:"air_scrubbing_min_condition"`
	MinimumDays              int             `yaml:"minimum_days"`
	Notes                    ComplianceNotes `yaml:"notes"`
}

type PricingRules struct {
	LaborRates    map[string]float64 `yaml:"labor_rates"`
	EquipmentDays []int              `yaml:"equipment_days"`
	MarkupPresets map[string]float64 `yaml:"markup_presets"`
	MaxMarkup     float64            `yaml:"max_markup"`
}

// Tables is the full rule set for one region.
type Tables struct {
	Region     string             `yaml:"region"`
	Mold       MoldRules          `yaml:"mold"`
	Water      WaterRules         `yaml:"water"`
	Fire       FireRules          `yaml:"fire"`
	Species    map[string]Species `yaml:"species"`
	Minimums   []TierMinimum      `yaml:"minimums"`
	Equipment  EquipmentRules     `yaml:"equipment"`
	Compliance ComplianceRules    `yaml:"compliance"`
	Pricing    PricingRules       `yaml:"pricing"`
}

// Load reads a YAML rules file on top of the York, PA defaults. Map entries
// in the file are merged into the defaults; lists replace them.
func Load(path string) (Tables, error) {
	t := YorkPA()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return t, nil
}

// AirChanges returns the required air changes per hour for a mold level.
func (t Tables) AirChanges(level int) (float64, error) {
	l, ok := t.Mold.Levels[level]
	if !ok || l.AirChangesPerHour <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	return l.AirChangesPerHour, nil
}

func (t Tables) MoldCondition(condition int) (MoldCondition, error) {
	c, ok := t.Mold.Conditions[condition]
	if !ok {
		return MoldCondition{}, fmt.Errorf("%w: mold condition %d", ErrUnknownTier, condition)
	}
	return c, nil
}

func (t Tables) WaterCategory(category int) (Tier, error) {
	c, ok := t.Water.Categories[category]
	if !ok {
		return Tier{}, fmt.Errorf("%w: water category %d", ErrUnknownTier, category)
	}
	return c, nil
}

func (t Tables) WaterClass(class int) (Tier, error) {
	c, ok := t.Water.Classes[class]
	if !ok {
		return Tier{}, fmt.Errorf("%w: water class %d", ErrUnknownTier, class)
	}
	return c, nil
}

func (t Tables) FireSeverity(severity string) (Tier, error) {
	s, ok := t.Fire.Severities[strings.ToLower(strings.TrimSpace(severity))]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %q", ErrUnknownSeverity, severity)
	}
	return s, nil
}

// TierKey returns the key of the scale the floors are defined on: mold
// condition, water category or fire severity. Empty means unclassified.
func TierKey(d entities.DamageType, c entities.Classification) string {
	switch d {
	case entities.DamageTypeMold:
		if c.Condition > 0 {
			return strconv.Itoa(c.Condition)
		}
	case entities.DamageTypeWater:
		if c.Category > 0 {
			return strconv.Itoa(c.Category)
		}
	case entities.DamageTypeFire:
		return strings.ToLower(strings.TrimSpace(c.Severity))
	}
	return ""
}

// HighestTier returns the top tier key of the damage type's severity scale.
func (t Tables) HighestTier(d entities.DamageType) string {
	switch d {
	case entities.DamageTypeMold:
		return strconv.Itoa(maxIntKey(t.Mold.Conditions))
	case entities.DamageTypeWater:
		return strconv.Itoa(maxIntKey(t.Water.Categories))
	case entities.DamageTypeFire:
		best, rank := "", -1
		for _, k := range sortedKeys(t.Fire.Severities) {
			if r := t.Fire.Severities[k].Rank; r > rank {
				best, rank = k, r
			}
		}
		return best
	}
	return ""
}

// CheckClassification fails when a classification key is not in the tables.
func (t Tables) CheckClassification(d entities.DamageType, c entities.Classification) error {
	switch d {
	case entities.DamageTypeMold:
		if c.Condition != 0 {
			if _, err := t.MoldCondition(c.Condition); err != nil {
				return err
			}
		}
		if c.Level != 0 {
			if _, err := t.AirChanges(c.Level); err != nil {
				return err
			}
		}
	case entities.DamageTypeWater:
		if c.Category != 0 {
			if _, err := t.WaterCategory(c.Category); err != nil {
				return err
			}
		}
		if c.Class != 0 {
			if _, err := t.WaterClass(c.Class); err != nil {
				return err
			}
		}
	case entities.DamageTypeFire:
		if strings.TrimSpace(c.Severity) != "" {
			if _, err := t.FireSeverity(c.Severity); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: damage type %q", ErrUnknownTier, d)
	}
	return nil
}

// Minimum returns the floor configured for a tier, if any.
func (t Tables) Minimum(d entities.DamageType, tier string) (TierMinimum, bool) {
	for _, m := range t.Minimums {
		if m.DamageType == d && m.Tier == tier {
			return m, true
		}
	}
	return TierMinimum{}, false
}

// MatchSpecies finds the risk entry for an identified species name. Names
// are matched case-insensitively by containment, so "Stachybotrys chartarum"
// resolves to the stachybotrys entry.
func (t Tables) MatchSpecies(name string) (string, Species, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", Species{}, false
	}
	for _, key := range sortedKeys(t.Species) {
		if strings.Contains(n, key) {
			return key, t.Species[key], true
		}
	}
	return "", Species{}, false
}

// LaborRateStandard is the rate line items are priced at unless an estimate
// records another.
const LaborRateStandard = "standard"

// LaborRate returns a named labor rate preset.
func (t Tables) LaborRate(name string) (float64, bool) {
	r, ok := t.Pricing.LaborRates[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

func (t Tables) MarkupPreset(name string) (float64, bool) {
	p, ok := t.Pricing.MarkupPresets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func maxIntKey[V any](m map[int]V) int {
	best := 0
	for k := range m {
		if k > best {
			best = k
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
