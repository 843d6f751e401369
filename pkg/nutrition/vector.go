// Package nutrition defines the nutrient vector shared by the feeding-plan
// engine and includes functions for scaling and aggregating nutrients across
// ingredients.
package nutrition

import (
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/mathutil"
)

// Vector holds the nutrient totals for an amount of food. The same shape is
// used both as an immutable per-100g density record and as a transient
// accumulator during aggregation.
type Vector struct {
	Kcal         float64 `json:"kcal"`
	ProteinG     float64 `json:"protein_g"`
	FatG         float64 `json:"fat_g"`
	CarbsG       float64 `json:"carbs_g"`
	CalciumMg    float64 `json:"calcium_mg"`
	PhosphorusMg float64 `json:"phosphorus_mg"`
	IronMg       float64 `json:"iron_mg"`
	ZincMg       float64 `json:"zinc_mg"`
	VitaminAMcg  float64 `json:"vitamin_a_mcg"`
	VitaminDMcg  float64 `json:"vitamin_d_mcg"`
	VitaminEMg   float64 `json:"vitamin_e_mg"`
}

// ScaledIngredient pairs a gram amount with the per-100g nutrient density of
// the ingredient it refers to.
type ScaledIngredient struct {
	Grams   float64
	Per100g Vector
}

// Amount converts a per-100g density to the absolute amount contained in the
// given gram quantity.
func Amount(grams, per100g float64) float64 {
	return grams * per100g / constants.GramsPerHundred
}

// AddScaled accumulates grams worth of the given per-100g density into v.
func (v *Vector) AddScaled(per100g Vector, grams float64) {
	v.Kcal += Amount(grams, per100g.Kcal)
	v.ProteinG += Amount(grams, per100g.ProteinG)
	v.FatG += Amount(grams, per100g.FatG)
	v.CarbsG += Amount(grams, per100g.CarbsG)
	v.CalciumMg += Amount(grams, per100g.CalciumMg)
	v.PhosphorusMg += Amount(grams, per100g.PhosphorusMg)
	v.IronMg += Amount(grams, per100g.IronMg)
	v.ZincMg += Amount(grams, per100g.ZincMg)
	v.VitaminAMcg += Amount(grams, per100g.VitaminAMcg)
	v.VitaminDMcg += Amount(grams, per100g.VitaminDMcg)
	v.VitaminEMg += Amount(grams, per100g.VitaminEMg)
}

// Add returns the channel-wise sum of v and other.
func (v Vector) Add(other Vector) Vector {
	return Vector{
		Kcal:         v.Kcal + other.Kcal,
		ProteinG:     v.ProteinG + other.ProteinG,
		FatG:         v.FatG + other.FatG,
		CarbsG:       v.CarbsG + other.CarbsG,
		CalciumMg:    v.CalciumMg + other.CalciumMg,
		PhosphorusMg: v.PhosphorusMg + other.PhosphorusMg,
		IronMg:       v.IronMg + other.IronMg,
		ZincMg:       v.ZincMg + other.ZincMg,
		VitaminAMcg:  v.VitaminAMcg + other.VitaminAMcg,
		VitaminDMcg:  v.VitaminDMcg + other.VitaminDMcg,
		VitaminEMg:   v.VitaminEMg + other.VitaminEMg,
	}
}

// Rounded returns a copy of v with every channel rounded to two decimals for
// reporting.
func (v Vector) Rounded() Vector {
	return Vector{
		Kcal:         mathutil.Round(v.Kcal),
		ProteinG:     mathutil.Round(v.ProteinG),
		FatG:         mathutil.Round(v.FatG),
		CarbsG:       mathutil.Round(v.CarbsG),
		CalciumMg:    mathutil.Round(v.CalciumMg),
		PhosphorusMg: mathutil.Round(v.PhosphorusMg),
		IronMg:       mathutil.Round(v.IronMg),
		ZincMg:       mathutil.Round(v.ZincMg),
		VitaminAMcg:  mathutil.Round(v.VitaminAMcg),
		VitaminDMcg:  mathutil.Round(v.VitaminDMcg),
		VitaminEMg:   mathutil.Round(v.VitaminEMg),
	}
}

// Aggregate sums the nutrient contributions of every scaled ingredient.
// The operation is linear and commutative; entry order only affects
// floating-point summation order.
func Aggregate(entries []ScaledIngredient) Vector {
	var totals Vector
	for _, entry := range entries {
		totals.AddScaled(entry.Per100g, entry.Grams)
	}
	return totals
}
