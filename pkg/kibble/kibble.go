// Package kibble converts a commercial food's guaranteed-analysis label into
// absolute nutrient amounts for a given serving.
package kibble

import (
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/mathutil"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// Label holds the guaranteed-analysis percentages from a commercial food bag
// plus the serving mass to normalize against. Calcium and phosphorus are
// optional because most labels omit them.
type Label struct {
	ProteinPct    float64  `json:"protein_pct"`
	FatPct        float64  `json:"fat_pct"`
	FiberPct      float64  `json:"fiber_pct"`
	MoisturePct   float64  `json:"moisture_pct"`
	AshPct        float64  `json:"ash_pct"`
	CalciumPct    *float64 `json:"calcium_pct,omitempty"`
	PhosphorusPct *float64 `json:"phosphorus_pct,omitempty"`
	ServingGrams  float64  `json:"amount_grams"`
}

// AtwaterFactors holds the kcal-per-gram energy constants used to estimate
// metabolizable energy from label composition.
type AtwaterFactors struct {
	ProteinKcalPerG float64
	FatKcalPerG     float64
	CarbKcalPerG    float64
}

// ModifiedAtwater returns the modified Atwater factors used for pet food,
// which discount the plain Atwater values for lower digestibility.
func ModifiedAtwater() AtwaterFactors {
	return AtwaterFactors{
		ProteinKcalPerG: 3.5,
		FatKcalPerG:     8.5,
		CarbKcalPerG:    3.5,
	}
}

// Result is the normalized outcome for one serving of kibble. Iron, zinc, and
// vitamins stay zero because guaranteed-analysis labels never report them;
// those channels are sourced from fresh food only.
type Result struct {
	Nutrients  nutrition.Vector `json:"nutrients"`
	NFEPct     float64          `json:"carb_pct_of_kibble"`
	HighFiller bool             `json:"high_filler_flag"`
}

// Normalizer converts labels using an immutable set of energy factors.
type Normalizer struct {
	factors AtwaterFactors
}

// NewNormalizer creates a Normalizer with the given energy factors.
func NewNormalizer(factors AtwaterFactors) *Normalizer {
	return &Normalizer{factors: factors}
}

// Normalize computes the absolute nutrient content of one serving.
// Carbohydrate is estimated as nitrogen-free extract: whatever share of the
// label remains after protein, fat, fiber, moisture, and ash. Fiber carries
// no metabolizable energy and is excluded from the kcal estimate.
func (n *Normalizer) Normalize(label Label) Result {
	nfePct := mathutil.Max(0, constants.PercentageMultiplier-
		(label.ProteinPct+label.FatPct+label.FiberPct+label.MoisturePct+label.AshPct))

	proteinG := mathutil.ApplyPercentage(label.ServingGrams, label.ProteinPct)
	fatG := mathutil.ApplyPercentage(label.ServingGrams, label.FatPct)
	carbsG := mathutil.ApplyPercentage(label.ServingGrams, nfePct)

	kcal := proteinG*n.factors.ProteinKcalPerG +
		fatG*n.factors.FatKcalPerG +
		carbsG*n.factors.CarbKcalPerG

	var calciumMg, phosphorusMg float64
	if label.CalciumPct != nil {
		calciumMg = mathutil.ApplyPercentage(label.ServingGrams, *label.CalciumPct) * constants.MgPerGram
	}
	if label.PhosphorusPct != nil {
		phosphorusMg = mathutil.ApplyPercentage(label.ServingGrams, *label.PhosphorusPct) * constants.MgPerGram
	}

	return Result{
		Nutrients: nutrition.Vector{
			Kcal:         kcal,
			ProteinG:     proteinG,
			FatG:         fatG,
			CarbsG:       carbsG,
			CalciumMg:    calciumMg,
			PhosphorusMg: phosphorusMg,
		},
		NFEPct:     nfePct,
		HighFiller: nfePct > constants.HighFillerNFEPercent,
	}
}
