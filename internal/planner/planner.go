// Package planner implements the feeding-plan computation engine: energy
// budgeting, role-aware ration composition, nutrient aggregation, compliance
// grading, and the before/after simulation pipeline.
//
// Every invocation builds its own intermediate state; the engine holds no
// mutable shared data and arbitrarily many plans may be computed in parallel.
package planner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/compliance"
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/energy"
	"github.com/kwehner/pup-planner/pkg/kibble"
)

// ErrEmptyRecipe indicates a recipe with no entries was submitted for
// computation.
var ErrEmptyRecipe = errors.New("recipe has no ingredients")

// ErrPercentageSum indicates the recipe's percentages fall outside the
// accepted tolerance on the strict compute path.
var ErrPercentageSum = errors.New("recipe percentages must sum to 100%")

// Engine orchestrates the planning pipeline. All dependencies are immutable
// after construction.
type Engine struct {
	logger     *zap.Logger
	energy     *energy.Calculator
	normalizer *kibble.Normalizer
	evaluator  *compliance.Evaluator
}

// Option customizes an Engine beyond its defaults.
type Option func(*Engine)

// WithFactorTable substitutes the activity factor table used for maintenance
// energy.
func WithFactorTable(factors energy.FactorTable) Option {
	return func(e *Engine) { e.energy = energy.NewCalculator(factors) }
}

// WithAtwaterFactors substitutes the energy constants used to normalize
// commercial-food labels.
func WithAtwaterFactors(factors kibble.AtwaterFactors) Option {
	return func(e *Engine) { e.normalizer = kibble.NewNormalizer(factors) }
}

// NewEngine creates an Engine. A nil logger is replaced with a no-op logger;
// a nil evaluator falls back to the default reference table; options override
// the standard factor tables.
func NewEngine(logger *zap.Logger, evaluator *compliance.Evaluator, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = compliance.NewEvaluator(compliance.DefaultReference())
	}
	e := &Engine{
		logger:     logger,
		energy:     energy.NewCalculator(energy.DefaultFactors()),
		normalizer: kibble.NewNormalizer(kibble.ModifiedAtwater()),
		evaluator:  evaluator,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnergyProfile is the derived energy view of a dog.
type EnergyProfile struct {
	RER    float64 `json:"rer"`
	MER    float64 `json:"mer"`
	Factor float64 `json:"activity_factor"`
	Target float64 `json:"target_kcal"`
}

// EnergyProfile derives resting and maintenance requirements for a dog and
// resolves the effective daily target, preferring a positive explicit
// override on the profile.
func (e *Engine) EnergyProfile(dog model.Dog) (EnergyProfile, error) {
	rer, err := energy.RestingEnergy(dog.WeightKg)
	if err != nil {
		return EnergyProfile{}, fmt.Errorf("invalid weight for %s: %w", dog.Name, err)
	}

	current := dog.WeightKg
	factor := e.energy.ActivityFactor(dog.Neutered, dog.AgeYears, dog.TargetWeightKg, &current)
	mer := rer * factor

	target := mer
	if dog.TargetDailyKcal != nil && *dog.TargetDailyKcal > 0 {
		target = *dog.TargetDailyKcal
	}

	return EnergyProfile{RER: rer, MER: mer, Factor: factor, Target: target}, nil
}

// validateStrict applies the compute-path precondition: a non-empty recipe
// whose percentages (across every entry) sum to within one point of 100.
// The internal composer tolerates drift by rescaling; this entry point does
// not.
func validateStrict(recipe model.Recipe) error {
	if len(recipe.Entries) == 0 {
		return ErrEmptyRecipe
	}

	sum := 0.0
	for _, entry := range recipe.Entries {
		sum += entry.Percentage
	}
	if sum < constants.PercentageSumLow || sum > constants.PercentageSumHigh {
		return fmt.Errorf("%w (currently %.1f%%)", ErrPercentageSum, sum)
	}
	return nil
}

// mealsPerDay normalizes a recipe's meal split, defaulting when unset.
func mealsPerDay(recipe model.Recipe) int {
	if recipe.MealsPerDay < 1 {
		return constants.DefaultMealsPerDay
	}
	return recipe.MealsPerDay
}
