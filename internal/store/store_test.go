package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwehner/pup-planner/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestDogLifecycle(t *testing.T) {
	s := newTestStore(t)

	target := 12.0
	dog := model.Dog{
		Name:           "Maple",
		AgeYears:       4,
		Sex:            model.SexFemale,
		Neutered:       true,
		WeightKg:       15,
		TargetWeightKg: &target,
		ActivityLevel:  model.ActivityModerate,
	}
	require.NoError(t, s.CreateDog(&dog))
	require.NotZero(t, dog.ID)

	fetched, err := s.GetDog(dog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maple", fetched.Name)
	assert.Equal(t, 15.0, fetched.WeightKg)
	require.NotNil(t, fetched.TargetWeightKg)
	assert.Equal(t, 12.0, *fetched.TargetWeightKg)
	assert.Nil(t, fetched.TargetDailyKcal)

	dogs, err := s.ListDogs()
	require.NoError(t, err)
	assert.Len(t, dogs, 1)
}

func TestGetDogNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDog(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDogAppendsWeightHistory(t *testing.T) {
	s := newTestStore(t)

	dog := model.Dog{Name: "Scout", AgeYears: 3, Sex: model.SexMale, WeightKg: 20, ActivityLevel: model.ActivityHigh}
	require.NoError(t, s.CreateDog(&dog))

	entries, err := s.WeightHistory(dog.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20.0, entries[0].WeightKg)

	dog.WeightKg = 19.5
	require.NoError(t, s.UpdateDog(dog))

	entries, err = s.WeightHistory(dog.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 19.5, entries[1].WeightKg)

	// A non-weight edit must not grow the history.
	dog.Name = "Scout II"
	require.NoError(t, s.UpdateDog(dog))

	entries, err = s.WeightHistory(dog.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIngredientRoundtrip(t *testing.T) {
	s := newTestStore(t)

	oil := model.Ingredient{
		Name:       "Salmon Oil",
		SourceType: model.SourceUser,
		Role:       model.RoleOil,
		Oil:        &model.OilSpec{KcalPerMl: 9, ServingSizeMl: 5},
	}
	oil.Per100g.Kcal = 900
	oil.Per100g.FatG = 100
	require.NoError(t, s.CreateIngredient(&oil))

	fetched, err := s.GetIngredient(oil.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOil, fetched.Role)
	require.NotNil(t, fetched.Oil)
	assert.Equal(t, 9.0, fetched.Oil.KcalPerMl)
	assert.Equal(t, 5.0, fetched.Oil.ServingSizeMl)
	assert.Nil(t, fetched.Supplement)
	assert.Nil(t, fetched.Treat)
	assert.Equal(t, 900.0, fetched.Per100g.Kcal)
}

func TestDeleteIngredientInUse(t *testing.T) {
	s := newTestStore(t)

	chicken := model.Ingredient{Name: "Chicken", SourceType: model.SourceUser, Role: model.RoleFood}
	chicken.Per100g.Kcal = 165
	require.NoError(t, s.CreateIngredient(&chicken))

	recipe := model.Recipe{
		Name:    "Solo",
		Entries: []model.RecipeEntry{{Ingredient: chicken, Percentage: 100}},
	}
	require.NoError(t, s.CreateRecipe(&recipe))

	err := s.DeleteIngredient(chicken.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used by")

	require.NoError(t, s.DeleteRecipe(recipe.ID))
	require.NoError(t, s.DeleteIngredient(chicken.ID))
}

func TestRecipeRoundtrip(t *testing.T) {
	s := newTestStore(t)

	chicken := model.Ingredient{Name: "Chicken", SourceType: model.SourceUser, Role: model.RoleFood}
	chicken.Per100g.Kcal = 165
	chicken.Per100g.ProteinG = 31
	require.NoError(t, s.CreateIngredient(&chicken))

	rice := model.Ingredient{Name: "Rice", SourceType: model.SourceUser, Role: model.RoleFood}
	rice.Per100g.Kcal = 130
	require.NoError(t, s.CreateIngredient(&rice))

	recipe := model.Recipe{
		Name:        "Chicken and Rice",
		MealsPerDay: 3,
		Entries: []model.RecipeEntry{
			{Ingredient: chicken, Percentage: 60},
			{Ingredient: rice, Percentage: 40},
		},
	}
	require.NoError(t, s.CreateRecipe(&recipe))
	require.NotZero(t, recipe.ID)

	fetched, err := s.GetRecipe(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken and Rice", fetched.Name)
	assert.Equal(t, 3, fetched.MealsPerDay)
	require.Len(t, fetched.Entries, 2)
	assert.Equal(t, "Chicken", fetched.Entries[0].Ingredient.Name)
	assert.Equal(t, 60.0, fetched.Entries[0].Percentage)
	assert.Equal(t, 31.0, fetched.Entries[0].Ingredient.Per100g.ProteinG)

	_, err = s.GetRecipe(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanLifecycle(t *testing.T) {
	s := newTestStore(t)

	dog := model.Dog{Name: "Maple", AgeYears: 4, Sex: model.SexFemale, WeightKg: 15, ActivityLevel: model.ActivityModerate}
	require.NoError(t, s.CreateDog(&dog))

	chicken := model.Ingredient{Name: "Chicken", SourceType: model.SourceUser, Role: model.RoleFood}
	chicken.Per100g.Kcal = 165
	require.NoError(t, s.CreateIngredient(&chicken))

	recipe := model.Recipe{Name: "Solo", Entries: []model.RecipeEntry{{Ingredient: chicken, Percentage: 100}}}
	require.NoError(t, s.CreateRecipe(&recipe))

	plan := model.PlanSummary{
		DogID:        dog.ID,
		RecipeID:     recipe.ID,
		KibbleKcal:   100,
		TreatsKcal:   50,
		HomemadeKcal: 700,
		TargetKcal:   850,
	}
	require.NoError(t, s.SavePlan(&plan))
	require.NotZero(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())

	fetched, err := s.GetPlan(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, fetched.HomemadeKcal)

	forDog, err := s.ListPlansForDog(dog.ID)
	require.NoError(t, err)
	assert.Len(t, forDog, 1)

	fetched.TreatsKcal = 75
	require.NoError(t, s.UpdatePlan(fetched))
	updated, err := s.GetPlan(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.TreatsKcal)

	require.NoError(t, s.DeletePlan(plan.ID))
	_, err = s.GetPlan(plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Seed())
	require.NoError(t, s.Seed())

	rows, err := s.ReferenceRows()
	require.NoError(t, err)
	assert.Len(t, rows, 9)

	ingredients, err := s.ListIngredients()
	require.NoError(t, err)
	assert.Len(t, ingredients, len(ingredientSeed))

	recipes, err := s.ListRecipes()
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	recipe, err := s.GetRecipe(recipes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Balanced Chicken & Rice", recipe.Name)
	assert.Len(t, recipe.Entries, 5)

	sum := 0.0
	for _, entry := range recipe.Entries {
		sum += entry.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.01)
}

func TestReferenceRowsMatchChannels(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed())

	rows, err := s.ReferenceRows()
	require.NoError(t, err)

	var sawMax int
	for _, row := range rows {
		assert.Greater(t, row.MinPer1000Kcal, 0.0)
		if row.MaxPer1000Kcal != nil {
			sawMax++
			assert.Greater(t, *row.MaxPer1000Kcal, row.MinPer1000Kcal)
		}
	}
	assert.Equal(t, 4, sawMax)
}
