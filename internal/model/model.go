// Package model defines the persistent records shared by the store, the
// planning engine, and the HTTP layer.
package model

import (
	"time"

	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// Sex of a dog.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel is a coarse lifestyle classifier kept on the profile.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

// SourceType records where an ingredient's nutrient data came from.
type SourceType string

const (
	SourceUSDA  SourceType = "USDA"
	SourceBrand SourceType = "BRAND"
	SourceUser  SourceType = "USER"
)

// Role determines how an ingredient participates in ration composition.
type Role string

const (
	RoleFood       Role = "food"
	RoleOil        Role = "oil"
	RoleSupplement Role = "supplement"
	RoleTreat      Role = "treat"
)

// Dog is an animal profile. TargetWeightKg and TargetDailyKcal are optional;
// a positive TargetDailyKcal overrides the computed maintenance requirement.
// The engine reads profiles, it never mutates them.
type Dog struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	AgeYears        float64       `json:"age_years"`
	Sex             Sex           `json:"sex"`
	Neutered        bool          `json:"neutered"`
	WeightKg        float64       `json:"weight_kg"`
	TargetWeightKg  *float64      `json:"target_weight_kg,omitempty"`
	TargetDailyKcal *float64      `json:"target_daily_kcal,omitempty"`
	ActivityLevel   ActivityLevel `json:"activity_level"`
}

// WeightEntry is one immutable point in a dog's weight history. Entries are
// appended by the store on every profile weight change.
type WeightEntry struct {
	ID         int64     `json:"id"`
	DogID      int64     `json:"dog_id"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
}

// OilSpec carries the fields specific to oil-role ingredients. A zero
// KcalPerMl means the density is unknown and energy is approximated from the
// per-100g record; a zero ServingSizeMl falls back to one teaspoon per meal.
type OilSpec struct {
	KcalPerMl     float64 `json:"kcal_per_ml,omitempty"`
	ServingSizeMl float64 `json:"serving_size_ml,omitempty"`
}

// SupplementSpec carries the fields specific to supplement-role ingredients.
type SupplementSpec struct {
	KcalPerUnit float64 `json:"kcal_per_unit,omitempty"`
	UnitsPerDay float64 `json:"units_per_day,omitempty"`
}

// TreatSpec carries the fields specific to treat-role ingredients. Treats are
// given outside the computed budget.
type TreatSpec struct {
	KcalPerUnit float64 `json:"kcal_per_unit,omitempty"`
	UnitsPerDay float64 `json:"units_per_day,omitempty"`
}

// Ingredient is a per-100g nutrient record with a role tag. Exactly the
// sub-struct matching the role is populated; the others stay nil.
type Ingredient struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	SourceType SourceType       `json:"source_type"`
	SourceID   string           `json:"source_id,omitempty"`
	Role       Role             `json:"role"`
	Per100g    nutrition.Vector `json:"per_100g"`
	Oil        *OilSpec         `json:"oil,omitempty"`
	Supplement *SupplementSpec  `json:"supplement,omitempty"`
	Treat      *TreatSpec       `json:"treat,omitempty"`
}

// RecipeEntry ties an ingredient to its share of the recipe. Percentage is
// meaningful for food-role entries, which together cover 100% of batch weight;
// oil, supplement, and treat entries carry their own per-day sizing instead.
type RecipeEntry struct {
	Ingredient Ingredient `json:"ingredient"`
	Percentage float64    `json:"percentage"`
}

// Recipe is a named set of entries plus the meals-per-day split.
type Recipe struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	MealsPerDay int           `json:"meals_per_day"`
	Entries     []RecipeEntry `json:"entries"`
}

// PlanSummary is the flat plan record the store keeps; the detailed breakdown
// is recomputed on demand and not persisted.
type PlanSummary struct {
	ID           int64     `json:"id"`
	DogID        int64     `json:"dog_id"`
	RecipeID     int64     `json:"recipe_id"`
	KibbleKcal   float64   `json:"kibble_kcal"`
	TreatsKcal   float64   `json:"treats_kcal"`
	HomemadeKcal float64   `json:"homemade_kcal"`
	TargetKcal   float64   `json:"target_kcal"`
	CreatedAt    time.Time `json:"created_at"`
}
