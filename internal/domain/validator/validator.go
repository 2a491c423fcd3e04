// Package validator enforces floor pricing and mandatory disclosures on an
// estimate before it is shown to a customer.
//
// Validate only ever raises TotalEstimate and appends to HealthWarnings and
// ComplianceNotes. Running it on its own output is a no-op.
package validator

import (
	"strconv"
	"strings"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
)

var (
	containmentKeywords = []string{"containment", "zipper door", "poly barrier", "plastic sheeting"}
	scrubberKeywords    = []string{"scrubber"}
	testingKeywords     = []string{"prv", "post-remediation", "post remediation", "clearance", "verification"}
)

type Validator struct {
	tables rules.Tables
}

func New(tables rules.Tables) *Validator {
	return &Validator{tables: tables}
}

// Validate returns a corrected copy of e. It fails only when e carries a
// classification key the rule tables do not know.
func (v *Validator) Validate(e entities.Estimate) (entities.Estimate, error) {
	if err := v.tables.CheckClassification(e.DamageType, e.Classification); err != nil {
		return entities.Estimate{}, err
	}
	out := e.Clone()

	topTier := v.applyTierMinimum(&out)
	requiresPRV := v.applySpeciesRisk(&out)
	v.addComplianceNotes(&out, topTier, requiresPRV)

	return out, nil
}

func (v *Validator) applyTierMinimum(e *entities.Estimate) bool {
	tier := rules.TierKey(e.DamageType, e.Classification)
	if tier == "" || tier != v.tables.HighestTier(e.DamageType) {
		return false
	}
	if m, ok := v.tables.Minimum(e.DamageType, tier); ok && e.TotalEstimate < m.Amount {
		e.TotalEstimate = m.Amount
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, m.Note)
	}
	return true
}

func (v *Validator) applySpeciesRisk(e *entities.Estimate) (requiresPRV bool) {
	seen := map[string]bool{}
	for _, name := range e.Assessment.Species {
		key, sp, ok := v.tables.MatchSpecies(name)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		if sp.ForcesMinimum && e.TotalEstimate < sp.MinimumCharge {
			e.TotalEstimate = sp.MinimumCharge
		}
		if sp.HealthWarning != "" {
			e.HealthWarnings = appendUnique(e.HealthWarnings, sp.HealthWarning)
		}
		if sp.Advisory != "" {
			e.ComplianceNotes = appendUnique(e.ComplianceNotes, sp.Advisory)
		}
		requiresPRV = requiresPRV || sp.RequiresPRV
	}
	return requiresPRV
}

func (v *Validator) addComplianceNotes(e *entities.Estimate, topTier, requiresPRV bool) {
	c := v.tables.Compliance
	a := e.Assessment
	mold := e.DamageType == entities.DamageTypeMold

	if mold && a.AffectedAreaSqFt > c.ContainmentAreaSqFt &&
		!a.Containment.Planned() && !hasLineItem(e.LineItems, containmentKeywords) {
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, c.Notes.NoContainment)
	}

	if mold && e.Classification.Condition >= c.AirScrubbingMinCondition &&
		a.Equipment.AirScrubbers == 0 && !hasLineItem(e.LineItems, scrubberKeywords) {
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, c.Notes.NoAirScrubber)
	}

	if ((mold && topTier) || requiresPRV) &&
		!a.PostTestingRequired && !hasLineItem(e.LineItems, testingKeywords) {
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, c.Notes.NoTesting)
	}

	days := a.EstimatedDays
	if days == 0 {
		days = a.Equipment.Days
	}
	if e.DamageType != entities.DamageTypeFire && days > 0 && days < c.MinimumDays {
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, c.Notes.QuickTimeline)
	}

	if mold && e.Classification.Condition != 1 && !a.MoistureSource.Identified() {
		e.ComplianceNotes = appendUnique(e.ComplianceNotes, c.Notes.NoMoistureSource)
	}
}

// Floor returns the highest floor that applies to e, 0 when none does.
func (v *Validator) Floor(e entities.Estimate) float64 {
	var floor float64
	tier := rules.TierKey(e.DamageType, e.Classification)
	if tier != "" && tier == v.tables.HighestTier(e.DamageType) {
		if m, ok := v.tables.Minimum(e.DamageType, tier); ok {
			floor = m.Amount
		}
	}
	for _, name := range e.Assessment.Species {
		if _, sp, ok := v.tables.MatchSpecies(name); ok && sp.ForcesMinimum && sp.MinimumCharge > floor {
			floor = sp.MinimumCharge
		}
	}
	return floor
}

// Describe returns a one-line human label for the estimate's classification.
func (v *Validator) Describe(e entities.Estimate) string {
	c := e.Classification
	switch e.DamageType {
	case entities.DamageTypeMold:
		if cond, err := v.tables.MoldCondition(c.Condition); err == nil {
			s := "Condition " + strconv.Itoa(c.Condition) + " - " + cond.Name
			if c.Level > 0 {
				s += ", Level " + strconv.Itoa(c.Level)
			}
			return s
		}
	case entities.DamageTypeWater:
		if cat, err := v.tables.WaterCategory(c.Category); err == nil {
			s := "Category " + strconv.Itoa(c.Category) + " - " + cat.Name
			if c.Class > 0 {
				s += ", Class " + strconv.Itoa(c.Class)
			}
			return s
		}
	case entities.DamageTypeFire:
		if sev, err := v.tables.FireSeverity(c.Severity); err == nil {
			return sev.Name
		}
	}
	return "Unclassified"
}

func hasLineItem(items []entities.LineItem, keywords []string) bool {
	for _, it := range items {
		d := strings.ToLower(it.Description)
		for _, kw := range keywords {
			if strings.Contains(d, kw) {
				return true
			}
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
