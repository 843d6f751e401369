package planner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/compliance"
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/energy"
	"github.com/kwehner/pup-planner/pkg/mathutil"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// ComputeRequest carries the caller-supplied inputs for a plan computation.
// Field-level bounds (non-negative kcal, 1-30 days) are enforced upstream.
type ComputeRequest struct {
	KibbleKcal float64 `json:"kibble_kcal"`
	TreatsKcal float64 `json:"treats_kcal"`
	NumDays    int     `json:"num_days"`
}

// Portion is one ingredient's share of the daily ration. Only the fields
// matching the ingredient's role are populated.
type Portion struct {
	IngredientID   int64      `json:"ingredient_id"`
	IngredientName string     `json:"ingredient_name"`
	Role           model.Role `json:"ingredient_type"`

	GramsPerDay     float64 `json:"grams_per_day,omitempty"`
	GramsPerMeal    float64 `json:"grams_per_meal,omitempty"`
	TotalGramsBatch float64 `json:"total_grams_batch,omitempty"`

	MlPerMeal  float64 `json:"ml_per_meal,omitempty"`
	MlPerDay   float64 `json:"ml_per_day,omitempty"`
	TspPerMeal float64 `json:"tsp_per_meal,omitempty"`

	UnitsPerDay float64 `json:"units_per_day,omitempty"`

	KcalPerDay float64 `json:"kcal_per_day"`
}

// CalorieBudget summarizes where the daily energy target went. RemainingKcal
// may be negative when oils, supplements, and commercial food together exceed
// the target; that over-budget condition is surfaced, not clamped.
type CalorieBudget struct {
	TargetDailyKcal  float64 `json:"target_daily_kcal"`
	HomemadeFoodKcal float64 `json:"homemade_food_kcal"`
	KibbleKcal       float64 `json:"kibble_kcal"`
	OilsKcal         float64 `json:"oils_kcal"`
	SupplementsKcal  float64 `json:"supplements_kcal"`
	TreatsKcal       float64 `json:"treats_kcal"`
	TotalKcal        float64 `json:"total_kcal"`
	RemainingKcal    float64 `json:"remaining_kcal"`
}

// PlanResult is the full output of a plan computation.
type PlanResult struct {
	DogID      int64  `json:"dog_id"`
	DogName    string `json:"dog_name"`
	RecipeID   int64  `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`

	TargetKcal   float64 `json:"target_kcal"`
	KibbleKcal   float64 `json:"kibble_kcal"`
	TreatsKcal   float64 `json:"treats_kcal"`
	HomemadeKcal float64 `json:"homemade_kcal"`
	PerMealKcal  float64 `json:"per_meal_kcal"`
	MealsPerDay  int     `json:"meals_per_day"`

	NumDays           int     `json:"num_days"`
	TotalMeals        int     `json:"total_meals"`
	TotalBatchKcal    float64 `json:"total_batch_kcal"`
	TotalBatchGrams   float64 `json:"total_batch_grams"`
	GramsPerContainer float64 `json:"grams_per_container"`

	BatchIngredients []Portion `json:"batch_ingredients"`
	Oils             []Portion `json:"oils"`
	Supplements      []Portion `json:"supplements"`
	Treats           []Portion `json:"treats"`
	Portions         []Portion `json:"ingredient_portions"`

	CalorieBudget  CalorieBudget            `json:"calorie_budget"`
	NutrientTotals nutrition.Vector         `json:"nutrient_totals"`
	ComplianceRows []compliance.CheckResult `json:"aafco_checks"`
	Warnings       []string                 `json:"warnings"`
}

// groups holds recipe entries partitioned by ingredient role.
type groups struct {
	food        []model.RecipeEntry
	oils        []model.RecipeEntry
	supplements []model.RecipeEntry
	treats      []model.RecipeEntry
}

func partition(entries []model.RecipeEntry) groups {
	var g groups
	for _, entry := range entries {
		switch entry.Ingredient.Role {
		case model.RoleOil:
			g.oils = append(g.oils, entry)
		case model.RoleSupplement:
			g.supplements = append(g.supplements, entry)
		case model.RoleTreat:
			g.treats = append(g.treats, entry)
		default:
			g.food = append(g.food, entry)
		}
	}
	return g
}

// renormalizeFood rescales food percentages proportionally when their sum
// drifts outside the tolerance band, so batch sizing stays well-defined.
// This is deliberately more lenient than the strict compute-path check.
func renormalizeFood(food []model.RecipeEntry) []model.RecipeEntry {
	if len(food) == 0 {
		return food
	}

	sum := 0.0
	for _, entry := range food {
		sum += entry.Percentage
	}
	if sum >= constants.PercentageSumLow && sum <= constants.PercentageSumHigh {
		return food
	}
	if sum == 0 {
		return food
	}

	rescaled := make([]model.RecipeEntry, len(food))
	for i, entry := range food {
		entry.Percentage = entry.Percentage / sum * constants.PercentageMultiplier
		rescaled[i] = entry
	}
	return rescaled
}

// oilDailyVolume resolves an oil entry's per-day volume. Servings are per
// meal; an unset serving size falls back to one teaspoon.
func oilDailyVolume(spec *model.OilSpec, meals int) (mlPerMeal, mlPerDay float64) {
	mlPerMeal = constants.DefaultOilServingMl
	if spec != nil && spec.ServingSizeMl > 0 {
		mlPerMeal = spec.ServingSizeMl
	}
	return mlPerMeal, mlPerMeal * float64(meals)
}

// oilDailyKcal computes an oil entry's daily energy, preferring the declared
// kcal-per-ml density and approximating from the per-100g record otherwise.
func oilDailyKcal(entry model.RecipeEntry, mlPerDay float64) float64 {
	if entry.Ingredient.Oil != nil && entry.Ingredient.Oil.KcalPerMl > 0 {
		return entry.Ingredient.Oil.KcalPerMl * mlPerDay
	}
	return mlPerDay * constants.OilGramsPerMl / constants.GramsPerHundred * entry.Ingredient.Per100g.Kcal
}

func supplementDailyKcal(entries []model.RecipeEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		if spec := entry.Ingredient.Supplement; spec != nil {
			total += spec.KcalPerUnit * spec.UnitsPerDay
		}
	}
	return total
}

// Compute derives the full feeding plan for a dog and recipe. It is the
// strict entry point: an empty recipe or an out-of-tolerance percentage sum
// is rejected rather than repaired.
func (e *Engine) Compute(dog model.Dog, recipe model.Recipe, req ComputeRequest) (*PlanResult, error) {
	if err := validateStrict(recipe); err != nil {
		return nil, err
	}

	profile, err := e.EnergyProfile(dog)
	if err != nil {
		return nil, err
	}

	meals := mealsPerDay(recipe)
	homemade := energy.HomemadeBudget(profile.Target, req.KibbleKcal, req.TreatsKcal)

	g := partition(recipe.Entries)
	g.food = renormalizeFood(g.food)

	result := &PlanResult{
		DogID:        dog.ID,
		DogName:      dog.Name,
		RecipeID:     recipe.ID,
		RecipeName:   recipe.Name,
		TargetKcal:   mathutil.Round(profile.Target),
		KibbleKcal:   req.KibbleKcal,
		TreatsKcal:   req.TreatsKcal,
		HomemadeKcal: mathutil.Round(homemade),
		MealsPerDay:  meals,
		NumDays:      req.NumDays,
	}

	// Oils and supplements are dosed independently of the batch, so their
	// energy comes off the homemade budget before batch sizing.
	oilsKcal := 0.0
	for _, entry := range g.oils {
		_, mlPerDay := oilDailyVolume(entry.Ingredient.Oil, meals)
		oilsKcal += oilDailyKcal(entry, mlPerDay)
	}
	supplementsKcal := supplementDailyKcal(g.supplements)

	// A negative batch budget propagates through to negative portions and a
	// negative remaining balance; clamping here would hide a genuinely
	// over-committed day.
	batchKcal := homemade - oilsKcal - supplementsKcal

	weightedAvgKcal := 0.0
	for _, entry := range g.food {
		weightedAvgKcal += entry.Percentage / constants.PercentageMultiplier * entry.Ingredient.Per100g.Kcal
	}

	totalGramsPerDay := 0.0
	if weightedAvgKcal > 0 {
		totalGramsPerDay = batchKcal / weightedAvgKcal * constants.GramsPerHundred
	}

	scaled := make([]nutrition.ScaledIngredient, 0, len(g.food))
	for _, entry := range g.food {
		gramsPerDay := totalGramsPerDay * entry.Percentage / constants.PercentageMultiplier
		kcalPerDay := nutrition.Amount(gramsPerDay, entry.Ingredient.Per100g.Kcal)

		e.checkFoodSafety(result, entry, gramsPerDay)

		portion := Portion{
			IngredientID:    entry.Ingredient.ID,
			IngredientName:  entry.Ingredient.Name,
			Role:            model.RoleFood,
			GramsPerDay:     mathutil.Round(gramsPerDay),
			GramsPerMeal:    mathutil.Round(gramsPerDay / float64(meals)),
			KcalPerDay:      mathutil.Round(kcalPerDay),
			TotalGramsBatch: mathutil.Round(gramsPerDay * float64(req.NumDays)),
		}
		result.BatchIngredients = append(result.BatchIngredients, portion)
		result.Portions = append(result.Portions, portion)

		scaled = append(scaled, nutrition.ScaledIngredient{
			Grams:   gramsPerDay,
			Per100g: entry.Ingredient.Per100g,
		})
	}

	for _, entry := range g.oils {
		mlPerMeal, mlPerDay := oilDailyVolume(entry.Ingredient.Oil, meals)
		kcalPerDay := oilDailyKcal(entry, mlPerDay)
		tspPerMeal := mlPerMeal / constants.MlPerTeaspoon

		e.checkOilSafety(result, entry, dog.WeightKg, tspPerMeal, meals)

		portion := Portion{
			IngredientID:   entry.Ingredient.ID,
			IngredientName: entry.Ingredient.Name,
			Role:           model.RoleOil,
			MlPerMeal:      mathutil.Round(mlPerMeal),
			MlPerDay:       mathutil.Round(mlPerDay),
			TspPerMeal:     mathutil.Round(tspPerMeal),
			KcalPerDay:     mathutil.Round(kcalPerDay),
		}
		result.Oils = append(result.Oils, portion)
		result.Portions = append(result.Portions, portion)
	}

	for _, entry := range g.supplements {
		units, kcalPerDay := 1.0, 0.0
		if spec := entry.Ingredient.Supplement; spec != nil {
			if spec.UnitsPerDay > 0 {
				units = spec.UnitsPerDay
			}
			kcalPerDay = spec.KcalPerUnit * units
		}

		portion := Portion{
			IngredientID:   entry.Ingredient.ID,
			IngredientName: entry.Ingredient.Name,
			Role:           model.RoleSupplement,
			UnitsPerDay:    units,
			KcalPerDay:     mathutil.Round(kcalPerDay),
		}
		result.Supplements = append(result.Supplements, portion)
		result.Portions = append(result.Portions, portion)
	}

	for _, entry := range g.treats {
		units, kcalPerDay := 0.0, 0.0
		if spec := entry.Ingredient.Treat; spec != nil {
			units = spec.UnitsPerDay
			kcalPerDay = spec.KcalPerUnit * units
		}

		portion := Portion{
			IngredientID:   entry.Ingredient.ID,
			IngredientName: entry.Ingredient.Name,
			Role:           model.RoleTreat,
			UnitsPerDay:    units,
			KcalPerDay:     mathutil.Round(kcalPerDay),
		}
		result.Treats = append(result.Treats, portion)
		result.Portions = append(result.Portions, portion)
	}

	totalMeals := meals * req.NumDays
	totalBatchGrams := totalGramsPerDay * float64(req.NumDays)
	gramsPerContainer := 0.0
	if totalMeals > 0 {
		gramsPerContainer = totalBatchGrams / float64(totalMeals)
	}

	result.PerMealKcal = mathutil.Round(batchKcal / float64(meals))
	result.TotalMeals = totalMeals
	result.TotalBatchKcal = mathutil.Round(batchKcal * float64(req.NumDays))
	result.TotalBatchGrams = mathutil.Round(totalBatchGrams)
	result.GramsPerContainer = mathutil.Round(gramsPerContainer)

	totalAccounted := batchKcal + req.KibbleKcal + oilsKcal + supplementsKcal + req.TreatsKcal
	result.CalorieBudget = CalorieBudget{
		TargetDailyKcal:  mathutil.Round(profile.Target),
		HomemadeFoodKcal: mathutil.Round(batchKcal),
		KibbleKcal:       mathutil.Round(req.KibbleKcal),
		OilsKcal:         mathutil.Round(oilsKcal),
		SupplementsKcal:  mathutil.Round(supplementsKcal),
		TreatsKcal:       mathutil.Round(req.TreatsKcal),
		TotalKcal:        mathutil.Round(totalAccounted),
		RemainingKcal:    mathutil.Round(profile.Target - totalAccounted),
	}

	totals := nutrition.Aggregate(scaled)
	result.NutrientTotals = totals.Rounded()
	result.ComplianceRows = e.evaluator.Evaluate(totals)
	for _, check := range result.ComplianceRows {
		if check.Warning != "" {
			result.Warnings = append(result.Warnings, check.Warning)
		}
	}

	e.logger.Debug("plan computed",
		zap.String("op", "planner.Compute"),
		zap.Int64("dog_id", dog.ID),
		zap.Int64("recipe_id", recipe.ID),
		zap.Float64("target_kcal", profile.Target),
		zap.Float64("batch_kcal", batchKcal),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

// checkFoodSafety applies the name-matched dosage limits for batch
// ingredients.
func (e *Engine) checkFoodSafety(result *PlanResult, entry model.RecipeEntry, gramsPerDay float64) {
	name := strings.ToLower(entry.Ingredient.Name)

	if strings.Contains(name, "turmeric") && gramsPerDay > constants.TurmericMaxGramsPerDay {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Turmeric exceeds safe limit: %.1fg/day (max %.0fg recommended)",
				gramsPerDay, constants.TurmericMaxGramsPerDay))
	}

	if strings.Contains(name, "liver") && entry.Percentage > constants.LiverMaxDietPercent {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Liver exceeds %.0f%% of diet: %.1f%% (max %.0f%% recommended)",
				constants.LiverMaxDietPercent, entry.Percentage, constants.LiverMaxDietPercent))
	}
}

// checkOilSafety warns when coconut oil exceeds the weight-scaled dose of one
// teaspoon per 30 lb per day.
func (e *Engine) checkOilSafety(result *PlanResult, entry model.RecipeEntry, weightKg, tspPerMeal float64, meals int) {
	if !strings.Contains(strings.ToLower(entry.Ingredient.Name), "coconut") {
		return
	}

	weightLbs := weightKg * constants.LbsPerKg
	maxTspPerDay := weightLbs / constants.CoconutOilLbsPerTsp
	if tspPerMeal*float64(meals) > maxTspPerDay {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Coconut oil may exceed safe limit for %.0f lb dog", weightLbs))
	}
}
