package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kwehner/pup-planner/internal/model"
)

// CreateRecipe inserts a recipe and its entries in one transaction. Each
// entry must reference an existing ingredient by id.
func (s *Store) CreateRecipe(recipe *model.Recipe) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meals := recipe.MealsPerDay
	if meals < 1 {
		meals = 2
	}

	res, err := tx.Exec(`INSERT INTO recipes (name, meals_per_day) VALUES (?, ?)`,
		recipe.Name, meals)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read recipe id: %w", err)
	}

	for _, entry := range recipe.Entries {
		if _, err := tx.Exec(`
            INSERT INTO recipe_entries (recipe_id, ingredient_id, percentage)
            VALUES (?, ?, ?)`,
			id, entry.Ingredient.ID, entry.Percentage); err != nil {
			return fmt.Errorf("failed to insert recipe entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	recipe.ID = id
	recipe.MealsPerDay = meals
	return nil
}

// GetRecipe fetches a recipe with its entries and their full ingredient
// records.
func (s *Store) GetRecipe(id int64) (model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.QueryRow(`SELECT id, name, meals_per_day FROM recipes WHERE id = ?`, id).
		Scan(&recipe.ID, &recipe.Name, &recipe.MealsPerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return recipe, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return recipe, fmt.Errorf("failed to scan recipe: %w", err)
	}

	rows, err := s.db.Query(`
        SELECT `+joinColumns(ingredientColumns, "i")+`, e.percentage
        FROM recipe_entries e
        JOIN ingredients i ON i.id = e.ingredient_id
        WHERE e.recipe_id = ?
        ORDER BY e.id`, id)
	if err != nil {
		return recipe, fmt.Errorf("failed to query recipe entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanRecipeEntry(rows)
		if err != nil {
			return recipe, fmt.Errorf("failed to scan recipe entry: %w", err)
		}
		recipe.Entries = append(recipe.Entries, entry)
	}
	return recipe, rows.Err()
}

func scanRecipeEntry(rows *sql.Rows) (model.RecipeEntry, error) {
	var entry model.RecipeEntry
	var sourceType, role string
	var sourceID sql.NullString
	var kcalPerMl, servingMl, kcalPerUnit, unitsPerDay sql.NullFloat64

	ing := &entry.Ingredient
	err := rows.Scan(&ing.ID, &ing.Name, &sourceType, &sourceID, &role,
		&ing.Per100g.Kcal, &ing.Per100g.ProteinG, &ing.Per100g.FatG, &ing.Per100g.CarbsG,
		&ing.Per100g.CalciumMg, &ing.Per100g.PhosphorusMg, &ing.Per100g.IronMg, &ing.Per100g.ZincMg,
		&ing.Per100g.VitaminAMcg, &ing.Per100g.VitaminDMcg, &ing.Per100g.VitaminEMg,
		&kcalPerMl, &servingMl, &kcalPerUnit, &unitsPerDay,
		&entry.Percentage)
	if err != nil {
		return entry, err
	}

	ing.SourceType = model.SourceType(sourceType)
	ing.Role = model.Role(role)
	if sourceID.Valid {
		ing.SourceID = sourceID.String
	}

	switch ing.Role {
	case model.RoleOil:
		ing.Oil = &model.OilSpec{KcalPerMl: kcalPerMl.Float64, ServingSizeMl: servingMl.Float64}
	case model.RoleSupplement:
		ing.Supplement = &model.SupplementSpec{KcalPerUnit: kcalPerUnit.Float64, UnitsPerDay: unitsPerDay.Float64}
	case model.RoleTreat:
		ing.Treat = &model.TreatSpec{KcalPerUnit: kcalPerUnit.Float64, UnitsPerDay: unitsPerDay.Float64}
	}
	return entry, nil
}

// joinColumns prefixes each comma-separated column with a table alias so the
// ingredient column list can be reused in joins.
func joinColumns(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// ListRecipes returns all recipes without their entries.
func (s *Store) ListRecipes() ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT id, name, meals_per_day FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.Name, &recipe.MealsPerDay); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// DeleteRecipe removes a recipe; its entries cascade.
func (s *Store) DeleteRecipe(id int64) error {
	res, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	// cascade is not enforced by default in sqlite; clean up explicitly
	if _, err := s.db.Exec(`DELETE FROM recipe_entries WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe entries: %w", err)
	}
	return nil
}
