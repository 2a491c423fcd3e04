package validator

import (
	"testing"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compliantMold is a mold estimate that triggers no advisories.
func compliantMold(condition int, total float64) entities.Estimate {
	return entities.Estimate{
		DamageType:     entities.DamageTypeMold,
		Classification: entities.Classification{Condition: condition, Level: 3},
		Assessment: entities.Assessment{
			AffectedAreaSqFt:    50,
			MoistureSource:      entities.MoistureSource{Type: "leak"},
			Containment:         entities.Containment{Type: "full"},
			Equipment:           entities.EquipmentPlan{AirScrubbers: 2, Days: 5},
			EstimatedDays:       5,
			PostTestingRequired: true,
		},
		LineItems: []entities.LineItem{
			{Description: "Remediation labor", Quantity: 10, Unit: "hr", UnitPrice: 85, Total: 850},
		},
		TotalEstimate: total,
	}
}

func TestCondition3Minimum(t *testing.T) {
	v := New(rules.YorkPA())

	out, err := v.Validate(compliantMold(3, 1800))
	require.NoError(t, err)
	assert.Equal(t, 2500.0, out.TotalEstimate)
	assert.Equal(t, []string{rules.Condition3MinimumNote}, out.ComplianceNotes)
	assert.Empty(t, out.HealthWarnings)
	assert.NotNil(t, out.HealthWarnings)
}

func TestCondition3AboveMinimumUntouched(t *testing.T) {
	v := New(rules.YorkPA())

	out, err := v.Validate(compliantMold(3, 4200))
	require.NoError(t, err)
	assert.Equal(t, 4200.0, out.TotalEstimate)
	assert.Empty(t, out.ComplianceNotes)
}

func TestLowerConditionsHaveNoFloor(t *testing.T) {
	v := New(rules.YorkPA())

	out, err := v.Validate(compliantMold(2, 300))
	require.NoError(t, err)
	assert.Equal(t, 300.0, out.TotalEstimate)
}

func TestWaterAndFireHaveNoFloors(t *testing.T) {
	v := New(rules.YorkPA())

	water, err := v.Validate(entities.Estimate{
		DamageType:     entities.DamageTypeWater,
		Classification: entities.Classification{Category: 3, Class: 2},
		TotalEstimate:  900,
	})
	require.NoError(t, err)
	assert.Equal(t, 900.0, water.TotalEstimate)

	fire, err := v.Validate(entities.Estimate{
		DamageType:     entities.DamageTypeFire,
		Classification: entities.Classification{Severity: "structural"},
		TotalEstimate:  900,
	})
	require.NoError(t, err)
	assert.Equal(t, 900.0, fire.TotalEstimate)
}

func TestStachybotrys(t *testing.T) {
	v := New(rules.YorkPA())
	e := compliantMold(2, 3000)
	e.Assessment.Species = []string{"Stachybotrys", "stachybotrys chartarum"}

	once, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, once.TotalEstimate)
	assert.Equal(t, []string{rules.BlackMoldWarning}, once.HealthWarnings)

	twice, err := v.Validate(once)
	require.NoError(t, err)
	assert.Equal(t, []string{rules.BlackMoldWarning}, twice.HealthWarnings)
	assert.Equal(t, 5000.0, twice.TotalEstimate)
}

func TestStachybotrysWarningAlreadyPresent(t *testing.T) {
	v := New(rules.YorkPA())
	e := compliantMold(3, 9000)
	e.Assessment.Species = []string{"stachybotrys"}
	e.HealthWarnings = []string{rules.BlackMoldWarning}

	out, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, []string{rules.BlackMoldWarning}, out.HealthWarnings)
	assert.Equal(t, 9000.0, out.TotalEstimate)
}

func TestChaetomiumAdvisory(t *testing.T) {
	v := New(rules.YorkPA())
	e := compliantMold(2, 2000)
	e.Assessment.Species = []string{"Chaetomium globosum"}

	out, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, out.TotalEstimate)
	assert.Contains(t, out.ComplianceNotes, "Chronic water damage indicator present")
	assert.Empty(t, out.HealthWarnings)
}

func TestComplianceAdvisories(t *testing.T) {
	v := New(rules.YorkPA())
	notes := rules.YorkPA().Compliance.Notes

	e := entities.Estimate{
		DamageType:     entities.DamageTypeMold,
		Classification: entities.Classification{Condition: 3, Level: 2},
		Assessment:     entities.Assessment{AffectedAreaSqFt: 25, EstimatedDays: 2},
		TotalEstimate:  3000,
	}

	out, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, out.TotalEstimate)
	assert.Equal(t, []string{
		notes.NoContainment,
		notes.NoAirScrubber,
		notes.NoTesting,
		notes.QuickTimeline,
		notes.NoMoistureSource,
	}, out.ComplianceNotes)
}

func TestComplianceSatisfiedByLineItems(t *testing.T) {
	v := New(rules.YorkPA())

	e := entities.Estimate{
		DamageType:     entities.DamageTypeMold,
		Classification: entities.Classification{Condition: 3},
		Assessment: entities.Assessment{
			AffectedAreaSqFt: 80,
			MoistureSource:   entities.MoistureSource{Description: "roof leak"},
		},
		LineItems: []entities.LineItem{
			{Description: "Containment setup with zipper doors"},
			{Description: "Air scrubber rental"},
			{Description: "Post-remediation verification (PRV)"},
		},
		TotalEstimate: 6000,
	}

	out, err := v.Validate(e)
	require.NoError(t, err)
	assert.Empty(t, out.ComplianceNotes)
}

func TestSmallAreaNeedsNoContainment(t *testing.T) {
	v := New(rules.YorkPA())
	e := compliantMold(2, 800)
	e.Assessment.AffectedAreaSqFt = 8
	e.Assessment.Containment = entities.Containment{}

	out, err := v.Validate(e)
	require.NoError(t, err)
	assert.Empty(t, out.ComplianceNotes)
}

func TestUnknownClassificationFails(t *testing.T) {
	v := New(rules.YorkPA())

	_, err := v.Validate(entities.Estimate{DamageType: entities.DamageTypeMold, Classification: entities.Classification{Condition: 7}})
	assert.ErrorIs(t, err, rules.ErrUnknownTier)

	_, err = v.Validate(entities.Estimate{DamageType: entities.DamageTypeFire, Classification: entities.Classification{Severity: "scorched"}})
	assert.ErrorIs(t, err, rules.ErrUnknownSeverity)

	_, err = v.Validate(entities.Estimate{DamageType: "asbestos"})
	assert.ErrorIs(t, err, rules.ErrUnknownTier)
}

func TestValidateIsIdempotentAndMonotonic(t *testing.T) {
	v := New(rules.YorkPA())

	inputs := []entities.Estimate{
		compliantMold(3, 100),
		compliantMold(1, 0),
		{
			DamageType:     entities.DamageTypeMold,
			Classification: entities.Classification{Condition: 3, Level: 4},
			Assessment:     entities.Assessment{AffectedAreaSqFt: 300, Species: []string{"stachybotrys", "chaetomium"}, EstimatedDays: 1},
			TotalEstimate:  2600,
		},
		{
			DamageType:     entities.DamageTypeWater,
			Classification: entities.Classification{Category: 2, Class: 3},
			Assessment:     entities.Assessment{EstimatedDays: 2},
			TotalEstimate:  4100,
		},
	}

	for _, e := range inputs {
		once, err := v.Validate(e)
		require.NoError(t, err)
		twice, err := v.Validate(once)
		require.NoError(t, err)

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("validate not idempotent (-once +twice):\n%s", diff)
		}
		assert.GreaterOrEqual(t, once.TotalEstimate, e.TotalEstimate)
		assert.Equal(t, len(e.LineItems), len(once.LineItems))
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	v := New(rules.YorkPA())
	e := compliantMold(3, 100)
	e.Assessment.Species = []string{"stachybotrys"}
	e.HealthWarnings = make([]string, 0, 4)

	_, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, 100.0, e.TotalEstimate)
	assert.Empty(t, e.HealthWarnings)
	assert.Empty(t, e.ComplianceNotes)
}

func TestFloor(t *testing.T) {
	v := New(rules.YorkPA())

	assert.Equal(t, 2500.0, v.Floor(compliantMold(3, 0)))
	assert.Equal(t, 0.0, v.Floor(compliantMold(2, 0)))

	e := compliantMold(3, 0)
	e.Assessment.Species = []string{"stachybotrys"}
	assert.Equal(t, 5000.0, v.Floor(e))
}

func TestDescribe(t *testing.T) {
	v := New(rules.YorkPA())

	assert.Equal(t, "Condition 3 - Actual Mold Growth, Level 3", v.Describe(compliantMold(3, 0)))
	assert.Equal(t, "Category 2 - Gray water, Class 3", v.Describe(entities.Estimate{
		DamageType:     entities.DamageTypeWater,
		Classification: entities.Classification{Category: 2, Class: 3},
	}))
	assert.Equal(t, "Heavy smoke", v.Describe(entities.Estimate{
		DamageType:     entities.DamageTypeFire,
		Classification: entities.Classification{Severity: "heavy"},
	}))
	assert.Equal(t, "Unclassified", v.Describe(entities.Estimate{DamageType: entities.DamageTypeMold}))
}
