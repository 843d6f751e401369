// Package energy implements resting and maintenance energy requirement
// calculations for dogs along with activity-factor selection.
package energy

import (
	"errors"
	"math"

	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/mathutil"
)

// ErrNonPositiveWeight indicates a weight at or below zero was supplied.
var ErrNonPositiveWeight = errors.New("weight must be positive")

// FactorTable holds the activity and life-stage multipliers applied to the
// resting energy requirement. It is injected so tests can substitute
// alternate tables.
type FactorTable struct {
	PuppyYoung    float64 // under 4 months
	PuppyOlder    float64 // 4 months to 1 year
	WeightLoss    float64
	WeightGain    float64
	NeuteredAdult float64
	IntactAdult   float64
}

// DefaultFactors returns the standard veterinary activity factor table.
func DefaultFactors() FactorTable {
	return FactorTable{
		PuppyYoung:    3.0,
		PuppyOlder:    2.0,
		WeightLoss:    1.1,
		WeightGain:    1.8,
		NeuteredAdult: 1.6,
		IntactAdult:   1.8,
	}
}

// youngPuppyAgeYears is the cutoff below which the highest growth factor applies.
const youngPuppyAgeYears = 4.0 / 12.0

// Calculator computes energy requirements using an immutable factor table.
type Calculator struct {
	factors FactorTable
}

// NewCalculator creates a Calculator with the given factor table.
func NewCalculator(factors FactorTable) *Calculator {
	return &Calculator{factors: factors}
}

// RestingEnergy returns the resting energy requirement (RER) in kcal/day:
// 70 * weightKg^0.75.
func RestingEnergy(weightKg float64) (float64, error) {
	if weightKg <= 0 {
		return 0, ErrNonPositiveWeight
	}
	return constants.RERCoefficient * math.Pow(weightKg, constants.RERExponent), nil
}

// ActivityFactor selects the multiplier for the maintenance energy
// requirement. Growth stages take precedence over everything else; a weight
// goal takes precedence over neuter status whenever both target and current
// weights are known and differ.
func (c *Calculator) ActivityFactor(neutered bool, ageYears float64, targetWeightKg, currentWeightKg *float64) float64 {
	if ageYears < 1 {
		if ageYears < youngPuppyAgeYears {
			return c.factors.PuppyYoung
		}
		return c.factors.PuppyOlder
	}

	if targetWeightKg != nil && currentWeightKg != nil {
		switch {
		case *targetWeightKg < *currentWeightKg:
			return c.factors.WeightLoss
		case *targetWeightKg > *currentWeightKg:
			return c.factors.WeightGain
		}
	}

	if neutered {
		return c.factors.NeuteredAdult
	}
	return c.factors.IntactAdult
}

// MaintenanceEnergy returns the maintenance energy requirement (MER) in
// kcal/day: RER scaled by the activity factor.
func MaintenanceEnergy(weightKg, factor float64) (float64, error) {
	rer, err := RestingEnergy(weightKg)
	if err != nil {
		return 0, err
	}
	return rer * factor, nil
}

// HomemadeBudget returns the calories left for homemade food after kibble and
// treats are accounted for. Never negative.
func HomemadeBudget(targetKcal, kibbleKcal, treatsKcal float64) float64 {
	return mathutil.Max(0, targetKcal-kibbleKcal-treatsKcal)
}
