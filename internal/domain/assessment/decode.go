// Package assessment turns the vision model's JSON answer, or an estimate
// submitted in the same shape, into an entities.Estimate.
//
// The decoder is lenient about shape (numbers written as strings, species
// listed in two different places, equipment as an object or a list) and
// strict about line items: rows without a quantity or unit price are rejected
// here so the pricing engine never sees them.
package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"restoredoc/internal/domain/entities"
)

var (
	ErrMalformedPayload  = errors.New("malformed assessment payload")
	ErrUnknownDamageType = errors.New("unknown damage type")
)

type lineItemPayload struct {
	Description string     `json:"description"`
	Quantity    *flexFloat `json:"quantity"`
	Unit        string     `json:"unit"`
	UnitPrice   *flexFloat `json:"unitPrice"`
	Category    string     `json:"category"`
}

type roomPayload struct {
	Length    flexFloat `json:"length"`
	Width     flexFloat `json:"width"`
	Height    flexFloat `json:"height"`
	CubicFeet flexFloat `json:"cubicFeet"`
}

type containmentPayload struct {
	Type        string    `json:"type"`
	PlasticSqFt flexFloat `json:"plasticSqFt"`
	ZipperDoors flexInt   `json:"zipperDoors"`
}

type equipmentEntry struct {
	Type     string  `json:"type"`
	Quantity flexInt `json:"quantity"`
	Days     flexInt `json:"days"`
}

type equipmentObject struct {
	AirScrubbers  flexInt `json:"airScrubbers"`
	NegativeAir   flexInt `json:"negativeAir"`
	Dehumidifiers flexInt `json:"dehumidifiers"`
	AirMovers     flexInt `json:"airMovers"`
	Days          flexInt `json:"days"`
}

type speciesObject struct {
	Identified []string `json:"identified"`
	RiskLevel  string   `json:"riskLevel"`
}

type moistureObject struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	RepairRequired bool   `json:"repairRequired"`
}

type payload struct {
	DamageType string    `json:"damageType"`
	Condition  tierInt   `json:"condition"`
	Level      tierInt   `json:"level"`
	Category   tierInt   `json:"category"`
	Class      tierInt   `json:"class"`
	Severity   string    `json:"severity"`
	Area       flexFloat `json:"affectedArea"`
	AreaSqFt   flexFloat `json:"affectedAreaSqFt"`

	RoomDimensions   roomPayload        `json:"roomDimensions"`
	Species          json.RawMessage    `json:"species"`
	EstimatedSpecies []string           `json:"estimatedSpecies"`
	ToxicityRisk     string             `json:"toxicityRisk"`
	MoistureSource   json.RawMessage    `json:"moistureSource"`
	Equipment        json.RawMessage    `json:"equipment"`
	Containment      containmentPayload `json:"containment"`

	LineItems       []lineItemPayload `json:"lineItems"`
	HealthWarnings  []string          `json:"healthWarnings"`
	HealthHazards   []string          `json:"healthHazards"`
	ComplianceNotes []string          `json:"complianceNotes"`
	TotalEstimate   flexFloat         `json:"totalEstimate"`

	EstimatedDays       flexInt `json:"estimatedDays"`
	Timeline            string  `json:"timeline"`
	PostTestingRequired bool    `json:"postTestingRequired"`
	Urgency             string  `json:"urgency"`
	Notes               string  `json:"notes"`
}

// Decode parses raw into a draft estimate. fallback is used when the payload
// does not name its damage type.
func Decode(raw []byte, fallback entities.DamageType) (entities.Estimate, error) {
	var p payload
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&p); err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	damage := fallback
	if strings.TrimSpace(p.DamageType) != "" {
		damage = entities.ParseDamageType(p.DamageType)
	}
	if !damage.Valid() {
		return entities.Estimate{}, fmt.Errorf("%w: %q", ErrUnknownDamageType, p.DamageType)
	}

	items, err := decodeLineItems(p.LineItems)
	if err != nil {
		return entities.Estimate{}, err
	}

	e := entities.Estimate{
		Status:     entities.EstimateStatusDraft,
		DamageType: damage,
		Classification: entities.Classification{
			Condition: p.Condition.Int(),
			Level:     p.Level.Int(),
			Category:  p.Category.Int(),
			Class:     p.Class.Int(),
			Severity:  strings.ToLower(strings.TrimSpace(p.Severity)),
		},
		Assessment:      decodeAssessment(p),
		LineItems:       items,
		HealthWarnings:  nonNil(append(p.HealthWarnings, p.HealthHazards...)),
		ComplianceNotes: nonNil(p.ComplianceNotes),
	}
	e.Subtotal = e.LineItemsTotal()
	e.TotalEstimate = e.Subtotal
	if p.TotalEstimate.Set && p.TotalEstimate.Value > 0 {
		e.TotalEstimate = entities.Round2(p.TotalEstimate.Value)
	}
	return e, nil
}

func decodeLineItems(in []lineItemPayload) ([]entities.LineItem, error) {
	out := make([]entities.LineItem, 0, len(in))
	for i, p := range in {
		if p.Quantity == nil || !p.Quantity.Set {
			return nil, fmt.Errorf("line %d: %w: quantity is required", i+1, entities.ErrInvalidLineItem)
		}
		if p.UnitPrice == nil || !p.UnitPrice.Set {
			return nil, fmt.Errorf("line %d: %w: unit price is required", i+1, entities.ErrInvalidLineItem)
		}
		li := entities.LineItem{
			Description: strings.TrimSpace(p.Description),
			Quantity:    p.Quantity.Value,
			Unit:        strings.TrimSpace(p.Unit),
			UnitPrice:   p.UnitPrice.Value,
			Category:    strings.TrimSpace(p.Category),
		}
		li.Recompute()
		out = append(out, li)
	}
	if err := entities.ValidateLineItems(out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeAssessment(p payload) entities.Assessment {
	a := entities.Assessment{
		AffectedAreaSqFt: p.AreaSqFt.Value,
		RiskLevel:        p.ToxicityRisk,
		Room: entities.RoomDimensions{
			Length:    p.RoomDimensions.Length.Value,
			Width:     p.RoomDimensions.Width.Value,
			Height:    p.RoomDimensions.Height.Value,
			CubicFeet: p.RoomDimensions.CubicFeet.Value,
		},
		Containment: entities.Containment{
			Type:        p.Containment.Type,
			PlasticSqFt: p.Containment.PlasticSqFt.Value,
			ZipperDoors: p.Containment.ZipperDoors.Int(),
		},
		EstimatedDays:       p.EstimatedDays.Int(),
		PostTestingRequired: p.PostTestingRequired,
		Urgency:             p.Urgency,
		Notes:               p.Notes,
	}
	if !p.AreaSqFt.Set {
		a.AffectedAreaSqFt = p.Area.Value
	}
	if a.EstimatedDays == 0 {
		if v, ok := leadingNumber(p.Timeline); ok {
			a.EstimatedDays = int(v)
		}
	}

	species, risk := decodeSpecies(p.Species)
	a.Species = append(species, p.EstimatedSpecies...)
	if a.RiskLevel == "" {
		a.RiskLevel = risk
	}
	a.MoistureSource = decodeMoisture(p.MoistureSource)
	a.Equipment = decodeEquipment(p.Equipment)
	return a
}

func decodeSpecies(raw json.RawMessage) ([]string, string) {
	if len(raw) == 0 {
		return nil, ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, ""
	}
	var obj speciesObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Identified, obj.RiskLevel
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}, ""
	}
	return nil, ""
}

func decodeMoisture(raw json.RawMessage) entities.MoistureSource {
	if len(raw) == 0 {
		return entities.MoistureSource{}
	}
	var obj moistureObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		return entities.MoistureSource{Type: obj.Type, Description: obj.Description, RepairRequired: obj.RepairRequired}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return entities.MoistureSource{Description: s}
	}
	return entities.MoistureSource{}
}

func decodeEquipment(raw json.RawMessage) entities.EquipmentPlan {
	var plan entities.EquipmentPlan
	if len(raw) == 0 {
		return plan
	}
	var obj equipmentObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		return entities.EquipmentPlan{
			AirScrubbers:  obj.AirScrubbers.Int(),
			NegativeAir:   obj.NegativeAir.Int(),
			Dehumidifiers: obj.Dehumidifiers.Int(),
			AirMovers:     obj.AirMovers.Int(),
			Days:          obj.Days.Int(),
		}
	}
	var list []equipmentEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return plan
	}
	for _, e := range list {
		q := e.Quantity.Int()
		switch t := strings.ToLower(e.Type); {
		case strings.Contains(t, "scrubber"):
			plan.AirScrubbers += q
		case strings.Contains(t, "negative"):
			plan.NegativeAir += q
		case strings.Contains(t, "dehumidifier"):
			plan.Dehumidifiers += q
		case strings.Contains(t, "air mover"):
			plan.AirMovers += q
		}
		if d := e.Days.Int(); d > plan.Days {
			plan.Days = d
		}
	}
	return plan
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
