package planner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/compliance"
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/kibble"
	"github.com/kwehner/pup-planner/pkg/minerals"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// Adjustment overrides one ingredient's percentage for a simulation run.
type Adjustment struct {
	IngredientID  int64   `json:"ingredient_id"`
	NewPercentage float64 `json:"new_percentage"`
}

// SimulateRequest describes a what-if run: percentage overrides keyed by
// ingredient, optionally blended with a commercial-food label.
type SimulateRequest struct {
	Adjustments []Adjustment  `json:"ingredient_adjustments"`
	Kibble      *kibble.Label `json:"kibble,omitempty"`
}

// NutrientBreakdown splits the "after" picture into its kibble and fresh
// components plus their combination. Kibble is nil for fresh-only runs.
type NutrientBreakdown struct {
	Kibble   *nutrition.Vector `json:"kibble,omitempty"`
	Fresh    nutrition.Vector  `json:"fresh"`
	Combined nutrition.Vector  `json:"combined"`
}

// SimulationResult is the advisory outcome of a simulation. Nothing is
// persisted.
type SimulationResult struct {
	Before          nutrition.Vector     `json:"before"`
	After           NutrientBreakdown    `json:"after"`
	Findings        []compliance.Finding `json:"nutrient_status"`
	Overall         compliance.Grade     `json:"overall_status"`
	Warnings        []string             `json:"warnings"`
	Recommendations []string             `json:"recommendations"`
	Ratio           minerals.Analysis    `json:"ca_p_analysis"`
	Kibble          *kibble.Result       `json:"kibble_analysis,omitempty"`
}

// referenceEntries scales every recipe entry against the fixed reference
// mass, applying any percentage overrides. At 1000 g reference a percentage
// maps to grams times ten, keeping the two numerically interchangeable.
func referenceEntries(recipe model.Recipe, overrides map[int64]float64) []nutrition.ScaledIngredient {
	entries := make([]nutrition.ScaledIngredient, 0, len(recipe.Entries))
	for _, entry := range recipe.Entries {
		pct := entry.Percentage
		if overrides != nil {
			if override, ok := overrides[entry.Ingredient.ID]; ok {
				pct = override
			}
		}
		entries = append(entries, nutrition.ScaledIngredient{
			Grams:   pct / constants.PercentageMultiplier * constants.SimulationReferenceGrams,
			Per100g: entry.Ingredient.Per100g,
		})
	}
	return entries
}

// Simulate runs the aggregation, compliance, and mineral-ratio pipeline twice
// over a recipe: once with its stored percentages and once with the requested
// adjustments, optionally blending a normalized kibble serving into the
// adjusted totals. Grading applies to the adjusted (or combined) vector only.
func (e *Engine) Simulate(recipe model.Recipe, req SimulateRequest) (*SimulationResult, error) {
	if len(recipe.Entries) == 0 {
		return nil, ErrEmptyRecipe
	}

	overrides := make(map[int64]float64, len(req.Adjustments))
	for _, adj := range req.Adjustments {
		overrides[adj.IngredientID] = adj.NewPercentage
	}

	before := nutrition.Aggregate(referenceEntries(recipe, nil))
	fresh := nutrition.Aggregate(referenceEntries(recipe, overrides))

	result := &SimulationResult{
		Before: before.Rounded(),
		After: NutrientBreakdown{
			Fresh: fresh.Rounded(),
		},
	}

	combined := fresh
	if req.Kibble != nil {
		normalized := e.normalizer.Normalize(*req.Kibble)
		result.Kibble = &normalized

		kibbleVector := normalized.Nutrients.Rounded()
		result.After.Kibble = &kibbleVector

		if normalized.HighFiller {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("HIGH FILLER CONTENT: Kibble is %.0f%% carbs (NFE)", normalized.NFEPct))
		}

		combined = fresh.Add(normalized.Nutrients)
	}
	result.After.Combined = combined.Rounded()

	result.Ratio = minerals.Analyze(combined.CalciumMg, combined.PhosphorusMg)
	if result.Ratio.Status == minerals.RatioLow {
		result.Warnings = append(result.Warnings, result.Ratio.Message)
		if result.Ratio.EggshellGrams != nil {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Add %.1fg eggshell powder to balance calcium", *result.Ratio.EggshellGrams))
		}
	}

	report := e.evaluator.Grade(combined)
	result.Findings = report.Findings
	result.Overall = report.Overall
	result.Warnings = append(result.Warnings, report.Warnings...)
	result.Recommendations = append(result.Recommendations, report.Recommendations...)

	e.logger.Debug("simulation complete",
		zap.String("op", "planner.Simulate"),
		zap.Int64("recipe_id", recipe.ID),
		zap.Int("adjustments", len(req.Adjustments)),
		zap.Bool("kibble", req.Kibble != nil),
		zap.String("overall", string(result.Overall)),
	)

	return result, nil
}
