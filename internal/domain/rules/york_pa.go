package rules

import "restoredoc/internal/domain/entities"

const (
	// BlackMoldWarning is the mandatory disclosure for stachybotrys.
	BlackMoldWarning = "Black mold detected - enhanced PPE required"

	// Condition3MinimumNote is appended when the condition 3 floor is applied.
	Condition3MinimumNote = "Minimum charge applied for Condition 3 remediation"
)

// YorkPA returns the default rule set: IICRC S500/S520/S700 classifications
// with York, PA regional pricing.
func YorkPA() Tables {
	return Tables{
		Region: "york-pa",
		Mold: MoldRules{
			Conditions: map[int]MoldCondition{
				1: {
					Name:       "Normal Fungal Ecology",
					Definition: "Indoor environment comparable to outdoor reference",
					SporeCount: "< 200 spores/m3 total",
					Action:     "No remediation required",
				},
				2: {
					Name:       "Settled Spores/Contamination",
					Definition: "Elevated airborne spores and surface contamination without visible growth",
					SporeCount: "200-1,500 spores/m3",
					Action:     "HEPA cleaning, air scrubbing required",
				},
				3: {
					Name:       "Actual Mold Growth",
					Definition: "Visible mold growth present",
					SporeCount: "> 1,500 spores/m3 or visible growth",
					Action:     "Full remediation with containment",
				},
			},
			Levels: map[int]MoldLevel{
				1: {Name: "small", Size: "< 10 sq ft", AirChangesPerHour: 4, PerSqFt: PriceRange{Min: 10, Max: 15}},
				2: {Name: "medium", Size: "10-30 sq ft", AirChangesPerHour: 6, PerSqFt: PriceRange{Min: 15, Max: 25}},
				3: {Name: "large", Size: "30-100 sq ft", AirChangesPerHour: 8, PerSqFt: PriceRange{Min: 20, Max: 30}},
				4: {Name: "extensive", Size: "> 100 sq ft", AirChangesPerHour: 10, PerSqFt: PriceRange{Min: 25, Max: 35}},
				5: {Name: "hvac", Size: "HVAC contamination", AirChangesPerHour: 12, PerSqFt: PriceRange{Min: 30, Max: 50}},
			},
		},
		Water: WaterRules{
			Categories: map[int]Tier{
				1: {Name: "Clean water", Description: "Sanitary source", PerSqFt: PriceRange{Min: 3.50, Max: 4.50}},
				2: {Name: "Gray water", Description: "Significant contamination", PerSqFt: PriceRange{Min: 4.50, Max: 6.00}},
				3: {Name: "Black water", Description: "Grossly contaminated", PerSqFt: PriceRange{Min: 7.00, Max: 9.50}},
			},
			Classes: map[int]Tier{
				1: {Name: "Class 1", Description: "Minimal water, < 5% of area affected"},
				2: {Name: "Class 2", Description: "10-30% of area, carpet and pad affected"},
				3: {Name: "Class 3", Description: "> 30% of area, walls wicked above 24 in"},
				4: {Name: "Class 4", Description: "Specialty drying, hardwood or concrete"},
			},
		},
		Fire: FireRules{
			Severities: map[string]Tier{
				"light":      {Name: "Light smoke", Description: "Surface cleaning only", Rank: 1, PerSqFt: PriceRange{Min: 3, Max: 5}},
				"medium":     {Name: "Medium smoke", Description: "Walls and ceilings affected", Rank: 2, PerSqFt: PriceRange{Min: 5, Max: 8}},
				"heavy":      {Name: "Heavy smoke", Description: "Structural cleaning needed", Rank: 3, PerSqFt: PriceRange{Min: 8, Max: 12}},
				"structural": {Name: "Structural fire", Description: "Charring or structural damage", Rank: 4, PerSqFt: PriceRange{Min: 25, Max: 50}},
			},
		},
		Species: map[string]Species{
			"stachybotrys": {
				CommonName:     "Black/Toxic Mold",
				Toxicity:       "HIGH",
				CostMultiplier: 1.5,
				SporeThreshold: "ANY presence requires immediate action",
				ForcesMinimum:  true,
				MinimumCharge:  5000,
				HealthWarning:  BlackMoldWarning,
				RequiresPRV:    true,
			},
			"aspergillus": {
				CommonName:     "Common Indoor Mold",
				Toxicity:       "MODERATE",
				CostMultiplier: 1.0,
				SporeThreshold: "< 700 spores/m3 acceptable",
			},
			"penicillium": {
				CommonName:     "Blue/Green Mold",
				Toxicity:       "MODERATE",
				CostMultiplier: 1.0,
				SporeThreshold: "< 700 spores/m3 with Aspergillus",
			},
			"cladosporium": {
				CommonName:     "Most Common Outdoor/Indoor",
				Toxicity:       "LOW",
				CostMultiplier: 0.8,
				SporeThreshold: "< 500-1500 spores/m3",
			},
			"chaetomium": {
				CommonName:     "Water Damage Indicator",
				Toxicity:       "MODERATE-HIGH",
				CostMultiplier: 1.3,
				SporeThreshold: "ANY presence = water problem",
				Advisory:       "Chronic water damage indicator present",
			},
			"alternaria": {
				CommonName:     "Allergenic Mold",
				Toxicity:       "LOW-MODERATE",
				CostMultiplier: 0.9,
				SporeThreshold: "< 200 spores/m3",
			},
		},
		Minimums: []TierMinimum{
			{DamageType: entities.DamageTypeMold, Tier: "3", Amount: 2500, Note: Condition3MinimumNote},
		},
		Equipment: EquipmentRules{
			CFMPerUnit:              500,
			NegativeAirExchangeRate: 0.1,
			NegativeAirCFMPerUnit:   500,
			ContainmentWasteFactor:  1.2,
			DoorSpacingFeet:         30,
			PlasticCostPerSqFt:      0.25,
			ZipperDoorCost:          45,
			DailyRates: map[string]float64{
				"air_scrubber":         175,
				"negative_air_machine": 200,
				"hepa_vacuum":          75,
				"dehumidifier_lgr":     100,
				"fogger":               125,
			},
		},
		Compliance: ComplianceRules{
			ContainmentAreaSqFt:      10,
			AirScrubbingMinCondition: 2,
			MinimumDays:              3,
			Notes: ComplianceNotes{
				NoContainment:    "Containment required for > 10 sq ft",
				NoAirScrubber:    "Air scrubbing mandatory for mold work",
				NoTesting:        "PRV testing required for Condition 3",
				QuickTimeline:    "Minimum 3 days for proper drying",
				NoMoistureSource: "Must identify moisture source per S520",
			},
		},
		Pricing: PricingRules{
			LaborRates: map[string]float64{
				"standard":    85,
				"emergency":   125,
				"after_hours": 150,
			},
			EquipmentDays: []int{3, 5, 7},
			MarkupPresets: map[string]float64{
				"none":      0,
				"insurance": 10,
				"emergency": 25,
			},
			MaxMarkup: 100,
		},
	}
}
