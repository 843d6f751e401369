package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// aafcoSeed is the adult-maintenance reference, per 1000 kcal metabolizable
// energy (AAFCO Dog Food Nutrient Profiles, 2023). Protein and fat are in mg.
var aafcoSeed = []struct {
	nutrient string
	min      float64
	max      *float64
}{
	{"protein", 45000, nil},
	{"fat", 13750, nil},
	{"calcium", 1250, f(6250)},
	{"phosphorus", 1000, f(4000)},
	{"iron", 10, nil},
	{"zinc", 20, nil},
	{"vitamin_a", 1250, f(62500)},
	{"vitamin_d", 3.125, f(18.75)},
	{"vitamin_e", 12.5, nil},
}

func f(v float64) *float64 { return &v }

// ingredientSeed holds approximations based on USDA data for common
// home-cooked dog food ingredients.
var ingredientSeed = []model.Ingredient{
	{
		Name: "Chicken Breast, cooked", SourceType: model.SourceUser, SourceID: "sample_chicken", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 165, ProteinG: 31, FatG: 3.6, CalciumMg: 15, PhosphorusMg: 196,
			IronMg: 1.04, ZincMg: 1.0, VitaminAMcg: 6, VitaminDMcg: 0.1, VitaminEMg: 0.27},
	},
	{
		Name: "Beef, ground, cooked", SourceType: model.SourceUser, SourceID: "sample_beef", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 250, ProteinG: 26, FatG: 15, CalciumMg: 18, PhosphorusMg: 175,
			IronMg: 2.24, ZincMg: 5.36, VitaminDMcg: 0.1, VitaminEMg: 0.14},
	},
	{
		Name: "Sweet Potato, cooked", SourceType: model.SourceUser, SourceID: "sample_sweet_potato", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 90, ProteinG: 2, FatG: 0.1, CarbsG: 21, CalciumMg: 38, PhosphorusMg: 54,
			IronMg: 0.69, ZincMg: 0.32, VitaminAMcg: 961, VitaminEMg: 0.71},
	},
	{
		Name: "White Rice, cooked", SourceType: model.SourceUser, SourceID: "sample_rice", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 130, ProteinG: 2.7, FatG: 0.3, CarbsG: 28, CalciumMg: 10, PhosphorusMg: 43,
			IronMg: 0.2, ZincMg: 0.49, VitaminEMg: 0.04},
	},
	{
		Name: "Beef Liver, cooked", SourceType: model.SourceUser, SourceID: "sample_liver", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 175, ProteinG: 29, FatG: 5, CarbsG: 5, CalciumMg: 11, PhosphorusMg: 497,
			IronMg: 6.54, ZincMg: 5.3, VitaminAMcg: 9442, VitaminDMcg: 1.2, VitaminEMg: 0.38},
	},
	{
		Name: "Egg, whole, cooked", SourceType: model.SourceUser, SourceID: "sample_egg", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 155, ProteinG: 13, FatG: 11, CarbsG: 1.1, CalciumMg: 50, PhosphorusMg: 172,
			IronMg: 1.19, ZincMg: 1.05, VitaminAMcg: 149, VitaminDMcg: 2.2, VitaminEMg: 1.03},
	},
	{
		Name: "Carrots, cooked", SourceType: model.SourceUser, SourceID: "sample_carrots", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 35, ProteinG: 0.8, FatG: 0.2, CarbsG: 8, CalciumMg: 30, PhosphorusMg: 30,
			IronMg: 0.34, ZincMg: 0.2, VitaminAMcg: 852, VitaminEMg: 1.03},
	},
	{
		Name: "Green Beans, cooked", SourceType: model.SourceUser, SourceID: "sample_green_beans", Role: model.RoleFood,
		Per100g: nutrition.Vector{Kcal: 35, ProteinG: 1.9, FatG: 0.1, CarbsG: 8, CalciumMg: 44, PhosphorusMg: 38,
			IronMg: 0.65, ZincMg: 0.24, VitaminAMcg: 35, VitaminEMg: 0.41},
	},
	{
		Name: "Coconut Oil", SourceType: model.SourceUser, SourceID: "sample_coconut_oil", Role: model.RoleOil,
		Per100g: nutrition.Vector{Kcal: 862, FatG: 100},
		Oil:     &model.OilSpec{KcalPerMl: 7.9, ServingSizeMl: 5},
	},
	{
		Name: "Eggshell Powder", SourceType: model.SourceUser, SourceID: "sample_eggshell", Role: model.RoleSupplement,
		Per100g:    nutrition.Vector{CalciumMg: 38000},
		Supplement: &model.SupplementSpec{KcalPerUnit: 0, UnitsPerDay: 1},
	},
}

// sampleRecipeShares maps the sample recipe's ingredients to their percentage
// of batch weight.
var sampleRecipeShares = []struct {
	sourceID   string
	percentage float64
}{
	{"sample_chicken", 39.5},
	{"sample_rice", 26.3},
	{"sample_liver", 7.9},
	{"sample_sweet_potato", 13.15},
	{"sample_carrots", 13.15},
}

// Seed populates the AAFCO reference table, sample ingredients, and a sample
// recipe. It is idempotent: existing rows are left alone.
func (s *Store) Seed() error {
	if err := s.seedReference(); err != nil {
		return err
	}
	if err := s.seedIngredients(); err != nil {
		return err
	}
	if err := s.seedSampleRecipe(); err != nil {
		return err
	}
	s.logger.Info("seed data loaded", zap.String("op", "store.Seed"))
	return nil
}

func (s *Store) seedReference() error {
	for _, req := range aafcoSeed {
		if _, err := s.db.Exec(`
            INSERT OR IGNORE INTO aafco_requirements (nutrient, min_per_1000kcal, max_per_1000kcal)
            VALUES (?, ?, ?)`,
			req.nutrient, req.min, req.max); err != nil {
			return fmt.Errorf("failed to seed requirement %s: %w", req.nutrient, err)
		}
	}
	return nil
}

func (s *Store) seedIngredients() error {
	for i := range ingredientSeed {
		ing := ingredientSeed[i]
		_, err := s.FindIngredientBySource(ing.SourceID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := s.CreateIngredient(&ing); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedSampleRecipe() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM recipes WHERE name = ?`, "Balanced Chicken & Rice").Scan(&count); err != nil {
		return fmt.Errorf("failed to check sample recipe: %w", err)
	}
	if count > 0 {
		return nil
	}

	recipe := model.Recipe{Name: "Balanced Chicken & Rice", MealsPerDay: 2}
	for _, share := range sampleRecipeShares {
		ing, err := s.FindIngredientBySource(share.sourceID)
		if err != nil {
			return fmt.Errorf("sample recipe needs %s: %w", share.sourceID, err)
		}
		recipe.Entries = append(recipe.Entries, model.RecipeEntry{
			Ingredient: ing,
			Percentage: share.percentage,
		})
	}
	return s.CreateRecipe(&recipe)
}
