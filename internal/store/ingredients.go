package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/kwehner/pup-planner/internal/model"
)

const ingredientColumns = `id, name, source_type, source_id, role,
    kcal_per_100g, protein_g_per_100g, fat_g_per_100g, carbs_g_per_100g,
    calcium_mg_per_100g, phosphorus_mg_per_100g, iron_mg_per_100g, zinc_mg_per_100g,
    vitamin_a_mcg_per_100g, vitamin_d_mcg_per_100g, vitamin_e_mg_per_100g,
    kcal_per_ml, serving_size_ml, kcal_per_unit, units_per_day`

// CreateIngredient inserts an ingredient and assigns its id.
func (s *Store) CreateIngredient(ing *model.Ingredient) error {
	var kcalPerMl, servingMl, kcalPerUnit, unitsPerDay any
	switch {
	case ing.Oil != nil:
		kcalPerMl = ing.Oil.KcalPerMl
		servingMl = ing.Oil.ServingSizeMl
	case ing.Supplement != nil:
		kcalPerUnit = ing.Supplement.KcalPerUnit
		unitsPerDay = ing.Supplement.UnitsPerDay
	case ing.Treat != nil:
		kcalPerUnit = ing.Treat.KcalPerUnit
		unitsPerDay = ing.Treat.UnitsPerDay
	}

	res, err := s.db.Exec(`
        INSERT INTO ingredients (name, source_type, source_id, role,
            kcal_per_100g, protein_g_per_100g, fat_g_per_100g, carbs_g_per_100g,
            calcium_mg_per_100g, phosphorus_mg_per_100g, iron_mg_per_100g, zinc_mg_per_100g,
            vitamin_a_mcg_per_100g, vitamin_d_mcg_per_100g, vitamin_e_mg_per_100g,
            kcal_per_ml, serving_size_ml, kcal_per_unit, units_per_day)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ing.Name, string(ing.SourceType), ing.SourceID, string(ing.Role),
		ing.Per100g.Kcal, ing.Per100g.ProteinG, ing.Per100g.FatG, ing.Per100g.CarbsG,
		ing.Per100g.CalciumMg, ing.Per100g.PhosphorusMg, ing.Per100g.IronMg, ing.Per100g.ZincMg,
		ing.Per100g.VitaminAMcg, ing.Per100g.VitaminDMcg, ing.Per100g.VitaminEMg,
		kcalPerMl, servingMl, kcalPerUnit, unitsPerDay)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ingredient id: %w", err)
	}
	ing.ID = id
	return nil
}

func scanIngredient(row interface{ Scan(...any) error }) (model.Ingredient, error) {
	var ing model.Ingredient
	var sourceType, role string
	var sourceID sql.NullString
	var kcalPerMl, servingMl, kcalPerUnit, unitsPerDay sql.NullFloat64

	err := row.Scan(&ing.ID, &ing.Name, &sourceType, &sourceID, &role,
		&ing.Per100g.Kcal, &ing.Per100g.ProteinG, &ing.Per100g.FatG, &ing.Per100g.CarbsG,
		&ing.Per100g.CalciumMg, &ing.Per100g.PhosphorusMg, &ing.Per100g.IronMg, &ing.Per100g.ZincMg,
		&ing.Per100g.VitaminAMcg, &ing.Per100g.VitaminDMcg, &ing.Per100g.VitaminEMg,
		&kcalPerMl, &servingMl, &kcalPerUnit, &unitsPerDay)
	if err != nil {
		return ing, err
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
	return ing, nil
}

// GetIngredient fetches one ingredient by id.
func (s *Store) GetIngredient(id int64) (model.Ingredient, error) {
	row := s.db.QueryRow(`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ing, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ing, fmt.Errorf("failed to scan ingredient: %w", err)
	}
	return ing, nil
}

// ListIngredients returns all ingredients ordered by name.
func (s *Store) ListIngredients() ([]model.Ingredient, error) {
	rows, err := s.db.Query(`SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// FindIngredientBySource looks up an ingredient by its external source id,
// used to make imports idempotent.
func (s *Store) FindIngredientBySource(sourceID string) (model.Ingredient, error) {
	row := s.db.QueryRow(`SELECT `+ingredientColumns+` FROM ingredients WHERE source_id = ?`, sourceID)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ing, fmt.Errorf("ingredient source %s: %w", sourceID, ErrNotFound)
	}
	if err != nil {
		return ing, fmt.Errorf("failed to scan ingredient: %w", err)
	}
	return ing, nil
}

// DeleteIngredient removes an ingredient unless a recipe still references it.
func (s *Store) DeleteIngredient(id int64) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM recipe_entries WHERE ingredient_id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("ingredient %d is used by %d recipe entries", id, count)
	}

	res, err := s.db.Exec(`DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
	}
	return nil
}
