// Package equipment sizes air scrubbing, negative air and containment for a
// contained work area using the S520 air-change formulas.
package equipment

import (
	"errors"
	"fmt"
	"math"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
)

var ErrInvalidGeometry = errors.New("invalid geometry")

// ContainmentPlan is the barrier material needed to isolate a work area.
type ContainmentPlan struct {
	BarrierSqFt float64 `json:"barrier_sq_ft"`
	PlasticSqFt float64 `json:"plastic_sq_ft"`
	ZipperDoors int     `json:"zipper_doors"`
	Cost        float64 `json:"cost"`
}

// Plan bundles everything needed to equip one room.
type Plan struct {
	CubicFeet        float64         `json:"cubic_feet"`
	Level            int             `json:"level"`
	AirScrubbers     int             `json:"air_scrubbers"`
	NegativeAirUnits int             `json:"negative_air_units"`
	Containment      ContainmentPlan `json:"containment"`
}

type Calculator struct {
	tables rules.Tables
}

func NewCalculator(tables rules.Tables) *Calculator {
	return &Calculator{tables: tables}
}

// AirScrubberCount sizes scrubbers with the region's default unit rating.
func (c *Calculator) AirScrubberCount(cubicFeet float64, level int) (int, error) {
	return c.AirScrubberCountWithCFM(cubicFeet, level, c.tables.Equipment.CFMPerUnit)
}

// AirScrubberCountWithCFM returns ceil(cubicFeet * ACH / 60 / cfmPerUnit),
// never less than one unit.
func (c *Calculator) AirScrubberCountWithCFM(cubicFeet float64, level int, cfmPerUnit float64) (int, error) {
	if cubicFeet <= 0 {
		return 0, fmt.Errorf("%w: cubic feet must be positive, got %v", ErrInvalidGeometry, cubicFeet)
	}
	if cfmPerUnit <= 0 {
		return 0, fmt.Errorf("%w: cfm per unit must be positive, got %v", ErrInvalidGeometry, cfmPerUnit)
	}
	ach, err := c.tables.AirChanges(level)
	if err != nil {
		return 0, err
	}
	cfm := cubicFeet * ach / 60
	return atLeastOne(math.Ceil(cfm / cfmPerUnit)), nil
}

// NegativePressureUnitCount returns the negative air machines needed to keep
// the work area under negative pressure.
func (c *Calculator) NegativePressureUnitCount(cubicFeet float64) (int, error) {
	if cubicFeet <= 0 {
		return 0, fmt.Errorf("%w: cubic feet must be positive, got %v", ErrInvalidGeometry, cubicFeet)
	}
	eq := c.tables.Equipment
	exhaust := cubicFeet * eq.NegativeAirExchangeRate / 60
	return atLeastOne(math.Ceil(exhaust / eq.NegativeAirCFMPerUnit)), nil
}

// ContainmentPlan computes sheeting with waste overlap, one zipper door per
// door-spacing run of perimeter, and the material cost.
func (c *Calculator) ContainmentPlan(perimeterFeet, heightFeet float64) (ContainmentPlan, error) {
	if perimeterFeet <= 0 || heightFeet <= 0 {
		return ContainmentPlan{}, fmt.Errorf("%w: perimeter %v, height %v", ErrInvalidGeometry, perimeterFeet, heightFeet)
	}
	eq := c.tables.Equipment
	barrier := perimeterFeet * heightFeet
	plastic := barrier * eq.ContainmentWasteFactor
	doors := int(math.Ceil(perimeterFeet / eq.DoorSpacingFeet))
	return ContainmentPlan{
		BarrierSqFt: barrier,
		PlasticSqFt: plastic,
		ZipperDoors: doors,
		Cost:        entities.Round2(plastic*eq.PlasticCostPerSqFt + float64(doors)*eq.ZipperDoorCost),
	}, nil
}

// PlanRoom sizes every piece of equipment for a measured room.
func (c *Calculator) PlanRoom(room entities.RoomDimensions, level int) (Plan, error) {
	return c.PlanRoomWithPerimeter(room, room.Perimeter(), level)
}

// PlanRoomWithPerimeter is PlanRoom for work areas whose containment run is
// not the room's floor perimeter.
func (c *Calculator) PlanRoomWithPerimeter(room entities.RoomDimensions, perimeterFeet float64, level int) (Plan, error) {
	if room.Length < 0 || room.Width < 0 || room.Height < 0 || room.CubicFeet < 0 {
		return Plan{}, fmt.Errorf("%w: room dimensions must not be negative, got %+v", ErrInvalidGeometry, room)
	}
	volume := room.Volume()
	scrubbers, err := c.AirScrubberCount(volume, level)
	if err != nil {
		return Plan{}, err
	}
	negative, err := c.NegativePressureUnitCount(volume)
	if err != nil {
		return Plan{}, err
	}
	containment, err := c.ContainmentPlan(perimeterFeet, room.Height)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		CubicFeet:        volume,
		Level:            level,
		AirScrubbers:     scrubbers,
		NegativeAirUnits: negative,
		Containment:      containment,
	}, nil
}

// Rental prices a plan's air scrubbers and negative air machines for days.
func (c *Calculator) Rental(p Plan, days int) float64 {
	if days <= 0 {
		return 0
	}
	var total float64
	if v, ok := c.DailyRental("air_scrubber", p.AirScrubbers, days); ok {
		total += v
	}
	if v, ok := c.DailyRental("negative_air_machine", p.NegativeAirUnits, days); ok {
		total += v
	}
	return entities.Round2(total)
}

// DailyRental returns the region's daily rate for a piece of equipment.
func (c *Calculator) DailyRental(kind string, units, days int) (float64, bool) {
	rate, ok := c.tables.Equipment.DailyRates[kind]
	if !ok {
		return 0, false
	}
	return entities.Round2(rate * float64(units) * float64(days)), true
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}
