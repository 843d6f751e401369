package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kwehner/pup-planner/internal/model"
)

const planColumns = `id, dog_id, recipe_id, kibble_kcal, treats_kcal, homemade_kcal, target_kcal, created_at`

// SavePlan inserts a plan summary and assigns its id and creation time.
func (s *Store) SavePlan(plan *model.PlanSummary) error {
	plan.CreatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := s.db.Exec(`
        INSERT INTO feeding_plans (dog_id, recipe_id, kibble_kcal, treats_kcal, homemade_kcal, target_kcal, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.DogID, plan.RecipeID, plan.KibbleKcal, plan.TreatsKcal,
		plan.HomemadeKcal, plan.TargetKcal, plan.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read plan id: %w", err)
	}
	plan.ID = id
	return nil
}

func scanPlan(row interface{ Scan(...any) error }) (model.PlanSummary, error) {
	var plan model.PlanSummary
	var createdAt string
	err := row.Scan(&plan.ID, &plan.DogID, &plan.RecipeID, &plan.KibbleKcal,
		&plan.TreatsKcal, &plan.HomemadeKcal, &plan.TargetKcal, &createdAt)
	if err != nil {
		return plan, err
	}
	if plan.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return plan, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return plan, nil
}

// GetPlan fetches one plan summary by id.
func (s *Store) GetPlan(id int64) (model.PlanSummary, error) {
	row := s.db.QueryRow(`SELECT `+planColumns+` FROM feeding_plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return plan, fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return plan, fmt.Errorf("failed to scan plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns all plan summaries, newest first.
func (s *Store) ListPlans() ([]model.PlanSummary, error) {
	return s.queryPlans(`SELECT ` + planColumns + ` FROM feeding_plans ORDER BY id DESC`)
}

// ListPlansForDog returns the plan summaries for one dog, newest first.
func (s *Store) ListPlansForDog(dogID int64) ([]model.PlanSummary, error) {
	return s.queryPlans(`SELECT `+planColumns+` FROM feeding_plans WHERE dog_id = ? ORDER BY id DESC`, dogID)
}

func (s *Store) queryPlans(query string, args ...any) ([]model.PlanSummary, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []model.PlanSummary
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// UpdatePlan rewrites a stored plan summary's calorie fields.
func (s *Store) UpdatePlan(plan model.PlanSummary) error {
	res, err := s.db.Exec(`
        UPDATE feeding_plans SET dog_id = ?, recipe_id = ?, kibble_kcal = ?,
            treats_kcal = ?, homemade_kcal = ?, target_kcal = ?
        WHERE id = ?`,
		plan.DogID, plan.RecipeID, plan.KibbleKcal, plan.TreatsKcal,
		plan.HomemadeKcal, plan.TargetKcal, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %d: %w", plan.ID, ErrNotFound)
	}
	return nil
}

// DeletePlan removes a stored plan summary.
func (s *Store) DeletePlan(id int64) error {
	res, err := s.db.Exec(`DELETE FROM feeding_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	return nil
}
