// Package compliance grades aggregated nutrient totals against an AAFCO-style
// reference table of per-1000 kcal allowances.
//
// Two graders exist on purpose. Check implements the plan-compute path with a
// coarse adequate/deficient/excess verdict; Grade implements the simulation
// path with a five-step ladder from excellent to dangerous. They share the
// same reference rows.
package compliance

import (
	"fmt"

	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/mathutil"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// Row is one reference nutrient allowance per 1000 kcal. Max is nil when the
// reference defines no safe upper limit.
type Row struct {
	Channel        nutrition.Channel
	MinPer1000Kcal float64
	MaxPer1000Kcal *float64
}

func maxPtr(v float64) *float64 { return &v }

// DefaultReference returns the adult-maintenance allowance table. Protein and
// fat minimums are expressed in mg so every row shares one reference unit.
func DefaultReference() []Row {
	return []Row{
		{Channel: nutrition.ChannelProtein, MinPer1000Kcal: 45000},
		{Channel: nutrition.ChannelFat, MinPer1000Kcal: 13750},
		{Channel: nutrition.ChannelCalcium, MinPer1000Kcal: 1250, MaxPer1000Kcal: maxPtr(6250)},
		{Channel: nutrition.ChannelPhosphorus, MinPer1000Kcal: 1000, MaxPer1000Kcal: maxPtr(4000)},
		{Channel: nutrition.ChannelIron, MinPer1000Kcal: 10},
		{Channel: nutrition.ChannelZinc, MinPer1000Kcal: 20},
		{Channel: nutrition.ChannelVitaminA, MinPer1000Kcal: 1250, MaxPer1000Kcal: maxPtr(62500)},
		{Channel: nutrition.ChannelVitaminD, MinPer1000Kcal: 3.125, MaxPer1000Kcal: maxPtr(18.75)},
		{Channel: nutrition.ChannelVitaminE, MinPer1000Kcal: 12.5},
	}
}

// PerThousandKcal converts a nutrient amount to a per-1000 kcal basis.
// Returns 0 when totalKcal is not positive so incomplete ingredient data
// degrades instead of dividing by zero.
func PerThousandKcal(amount, totalKcal float64) float64 {
	if totalKcal <= 0 {
		return 0
	}
	return amount / totalKcal * 1000
}

// referenceAmount extracts the channel value in the reference unit,
// converting gram channels to their milligram equivalent.
func referenceAmount(v nutrition.Vector, c nutrition.Channel) float64 {
	amount := v.Amount(c)
	if c.GramBased() {
		amount *= constants.MgPerGram
	}
	return amount
}

// CheckStatus is the coarse compute-path verdict.
type CheckStatus string

const (
	StatusAdequate  CheckStatus = "adequate"
	StatusDeficient CheckStatus = "deficient"
	StatusExcess    CheckStatus = "excess"
)

// CheckResult reports one nutrient's compute-path verdict.
type CheckResult struct {
	Nutrient          string      `json:"nutrient"`
	AmountPer1000Kcal float64     `json:"amount_per_1000kcal"`
	MinRequired       float64     `json:"min_required"`
	MaxAllowed        *float64    `json:"max_allowed"`
	Status            CheckStatus `json:"status"`
	Warning           string      `json:"warning,omitempty"`
}

// Check grades a single per-1000 kcal amount against one reference row.
func Check(nutrient string, amountPer1000Kcal, minPer1000Kcal float64, maxPer1000Kcal *float64) CheckResult {
	result := CheckResult{
		Nutrient:          nutrient,
		AmountPer1000Kcal: mathutil.Round(amountPer1000Kcal),
		MinRequired:       minPer1000Kcal,
		MaxAllowed:        maxPer1000Kcal,
		Status:            StatusAdequate,
	}

	if amountPer1000Kcal < minPer1000Kcal {
		result.Status = StatusDeficient
		result.Warning = fmt.Sprintf("%s is below minimum (%.2f < %g)", nutrient, amountPer1000Kcal, minPer1000Kcal)
	} else if maxPer1000Kcal != nil && amountPer1000Kcal > *maxPer1000Kcal {
		result.Status = StatusExcess
		result.Warning = fmt.Sprintf("%s is above maximum (%.2f > %g)", nutrient, amountPer1000Kcal, *maxPer1000Kcal)
	}

	return result
}

// Evaluator grades nutrient vectors against an immutable reference table.
type Evaluator struct {
	rows []Row
}

// NewEvaluator creates an Evaluator over the given reference rows.
func NewEvaluator(rows []Row) *Evaluator {
	return &Evaluator{rows: rows}
}

// Rows returns the reference table the evaluator was built with.
func (e *Evaluator) Rows() []Row {
	return e.rows
}

// Evaluate runs the compute-path Check for every reference row. With zero
// total calories there is nothing to grade and the result is empty.
func (e *Evaluator) Evaluate(totals nutrition.Vector) []CheckResult {
	if totals.Kcal <= 0 {
		return nil
	}

	results := make([]CheckResult, 0, len(e.rows))
	for _, row := range e.rows {
		per1000 := PerThousandKcal(referenceAmount(totals, row.Channel), totals.Kcal)
		results = append(results, Check(row.Channel.String(), per1000, row.MinPer1000Kcal, row.MaxPer1000Kcal))
	}
	return results
}
