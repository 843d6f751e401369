// Package store provides sqlite-backed persistence for dogs, ingredients,
// recipes, plan summaries, and the AAFCO reference table.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/compliance"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the sqlite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (or creates) the sqlite database at the given path and ensures
// the schema exists.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS dogs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        age_years REAL NOT NULL,
        sex TEXT NOT NULL,
        neutered INTEGER NOT NULL,
        weight_kg REAL NOT NULL,
        target_weight_kg REAL,
        target_daily_kcal REAL,
        activity_level TEXT NOT NULL DEFAULT 'moderate'
    );

    CREATE TABLE IF NOT EXISTS dog_weight_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        dog_id INTEGER NOT NULL,
        weight_kg REAL NOT NULL,
        recorded_at DATETIME NOT NULL,
        FOREIGN KEY (dog_id) REFERENCES dogs(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS ingredients (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        source_type TEXT NOT NULL,
        source_id TEXT,
        role TEXT NOT NULL DEFAULT 'food',
        kcal_per_100g REAL NOT NULL,
        protein_g_per_100g REAL NOT NULL DEFAULT 0,
        fat_g_per_100g REAL NOT NULL DEFAULT 0,
        carbs_g_per_100g REAL NOT NULL DEFAULT 0,
        calcium_mg_per_100g REAL NOT NULL DEFAULT 0,
        phosphorus_mg_per_100g REAL NOT NULL DEFAULT 0,
        iron_mg_per_100g REAL NOT NULL DEFAULT 0,
        zinc_mg_per_100g REAL NOT NULL DEFAULT 0,
        vitamin_a_mcg_per_100g REAL NOT NULL DEFAULT 0,
        vitamin_d_mcg_per_100g REAL NOT NULL DEFAULT 0,
        vitamin_e_mg_per_100g REAL NOT NULL DEFAULT 0,
        kcal_per_ml REAL,
        serving_size_ml REAL,
        kcal_per_unit REAL,
        units_per_day REAL
    );

    CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(name);
    CREATE INDEX IF NOT EXISTS idx_ingredients_source_id ON ingredients(source_id);

    CREATE TABLE IF NOT EXISTS recipes (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        meals_per_day INTEGER NOT NULL DEFAULT 2
    );

    CREATE TABLE IF NOT EXISTS recipe_entries (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        recipe_id INTEGER NOT NULL,
        ingredient_id INTEGER NOT NULL,
        percentage REAL NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE,
        FOREIGN KEY (ingredient_id) REFERENCES ingredients(id)
    );

    CREATE INDEX IF NOT EXISTS idx_recipe_entries_recipe_id ON recipe_entries(recipe_id);

    CREATE TABLE IF NOT EXISTS feeding_plans (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        dog_id INTEGER NOT NULL,
        recipe_id INTEGER NOT NULL,
        kibble_kcal REAL NOT NULL DEFAULT 0,
        treats_kcal REAL NOT NULL DEFAULT 0,
        homemade_kcal REAL NOT NULL DEFAULT 0,
        target_kcal REAL NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (dog_id) REFERENCES dogs(id),
        FOREIGN KEY (recipe_id) REFERENCES recipes(id)
    );

    CREATE TABLE IF NOT EXISTS aafco_requirements (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        nutrient TEXT NOT NULL UNIQUE,
        min_per_1000kcal REAL NOT NULL,
        max_per_1000kcal REAL
    );
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// CreateDog inserts a dog profile and records the first weight-history entry.
func (s *Store) CreateDog(dog *model.Dog) error {
	res, err := s.db.Exec(`
        INSERT INTO dogs (name, age_years, sex, neutered, weight_kg, target_weight_kg, target_daily_kcal, activity_level)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		dog.Name, dog.AgeYears, string(dog.Sex), dog.Neutered, dog.WeightKg,
		dog.TargetWeightKg, dog.TargetDailyKcal, string(dog.ActivityLevel))
	if err != nil {
		return fmt.Errorf("failed to insert dog: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read dog id: %w", err)
	}
	dog.ID = id

	return s.appendWeightEntry(dog.ID, dog.WeightKg)
}

func (s *Store) appendWeightEntry(dogID int64, weightKg float64) error {
	_, err := s.db.Exec(`
        INSERT INTO dog_weight_history (dog_id, weight_kg, recorded_at)
        VALUES (?, ?, ?)`,
		dogID, weightKg, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert weight entry: %w", err)
	}
	return nil
}

func scanDog(row interface{ Scan(...any) error }) (model.Dog, error) {
	var dog model.Dog
	var sex, activity string
	var targetWeight, targetKcal sql.NullFloat64

	err := row.Scan(&dog.ID, &dog.Name, &dog.AgeYears, &sex, &dog.Neutered,
		&dog.WeightKg, &targetWeight, &targetKcal, &activity)
	if err != nil {
		return dog, err
	}

	dog.Sex = model.Sex(sex)
	dog.ActivityLevel = model.ActivityLevel(activity)
	if targetWeight.Valid {
		dog.TargetWeightKg = &targetWeight.Float64
	}
	if targetKcal.Valid {
		dog.TargetDailyKcal = &targetKcal.Float64
	}
	return dog, nil
}

const dogColumns = `id, name, age_years, sex, neutered, weight_kg, target_weight_kg, target_daily_kcal, activity_level`

// GetDog fetches one dog by id.
func (s *Store) GetDog(id int64) (model.Dog, error) {
	row := s.db.QueryRow(`SELECT `+dogColumns+` FROM dogs WHERE id = ?`, id)
	dog, err := scanDog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dog, fmt.Errorf("dog %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return dog, fmt.Errorf("failed to scan dog: %w", err)
	}
	return dog, nil
}

// ListDogs returns all dog profiles.
func (s *Store) ListDogs() ([]model.Dog, error) {
	rows, err := s.db.Query(`SELECT ` + dogColumns + ` FROM dogs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dogs: %w", err)
	}
	defer rows.Close()

	var dogs []model.Dog
	for rows.Next() {
		dog, err := scanDog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dog: %w", err)
		}
		dogs = append(dogs, dog)
	}
	return dogs, rows.Err()
}

// UpdateDog persists profile changes. A weight change appends an immutable
// weight-history entry; history is never rewritten.
func (s *Store) UpdateDog(dog model.Dog) error {
	existing, err := s.GetDog(dog.ID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
        UPDATE dogs SET name = ?, age_years = ?, sex = ?, neutered = ?, weight_kg = ?,
            target_weight_kg = ?, target_daily_kcal = ?, activity_level = ?
        WHERE id = ?`,
		dog.Name, dog.AgeYears, string(dog.Sex), dog.Neutered, dog.WeightKg,
		dog.TargetWeightKg, dog.TargetDailyKcal, string(dog.ActivityLevel), dog.ID)
	if err != nil {
		return fmt.Errorf("failed to update dog: %w", err)
	}

	if existing.WeightKg != dog.WeightKg {
		return s.appendWeightEntry(dog.ID, dog.WeightKg)
	}
	return nil
}

// WeightHistory returns a dog's weight entries, oldest first.
func (s *Store) WeightHistory(dogID int64) ([]model.WeightEntry, error) {
	rows, err := s.db.Query(`
        SELECT id, dog_id, weight_kg, recorded_at
        FROM dog_weight_history WHERE dog_id = ? ORDER BY id`, dogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight history: %w", err)
	}
	defer rows.Close()

	var entries []model.WeightEntry
	for rows.Next() {
		var entry model.WeightEntry
		var recordedAt string
		if err := rows.Scan(&entry.ID, &entry.DogID, &entry.WeightKg, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weight entry: %w", err)
		}
		if entry.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ReferenceRows loads the AAFCO reference table, mapping nutrient names onto
// vector channels. An unknown nutrient name is an error rather than a silent
// zero contribution.
func (s *Store) ReferenceRows() ([]compliance.Row, error) {
	rows, err := s.db.Query(`SELECT nutrient, min_per_1000kcal, max_per_1000kcal FROM aafco_requirements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference rows: %w", err)
	}
	defer rows.Close()

	var reference []compliance.Row
	for rows.Next() {
		var name string
		var min float64
		var max sql.NullFloat64
		if err := rows.Scan(&name, &min, &max); err != nil {
			return nil, fmt.Errorf("failed to scan reference row: %w", err)
		}

		channel, ok := nutrition.ParseChannel(name)
		if !ok {
			return nil, fmt.Errorf("reference table names unknown nutrient %q", name)
		}

		row := compliance.Row{Channel: channel, MinPer1000Kcal: min}
		if max.Valid {
			row.MaxPer1000Kcal = &max.Float64
		}
		reference = append(reference, row)
	}
	return reference, rows.Err()
}
