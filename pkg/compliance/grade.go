package compliance

import (
	"fmt"
	"math"
	"strings"

	"github.com/kwehner/pup-planner/pkg/mathutil"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// Grade is the simulation-path status ladder.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeCaution   Grade = "caution"
	GradeBad       Grade = "bad"
	GradeDangerous Grade = "dangerous"
)

var gradeSeverity = map[Grade]int{
	GradeExcellent: 0,
	GradeGood:      1,
	GradeCaution:   2,
	GradeBad:       3,
	GradeDangerous: 4,
}

// Worse returns the more severe of two grades.
func Worse(a, b Grade) Grade {
	if gradeSeverity[b] > gradeSeverity[a] {
		return b
	}
	return a
}

// Finding reports one nutrient's simulation-path grade along with how it
// sits relative to the reference minimum and maximum.
type Finding struct {
	Nutrient          string   `json:"nutrient"`
	AmountPer1000Kcal float64  `json:"amount"`
	PercentOfMin      float64  `json:"percent_of_min"`
	PercentOfMax      *float64 `json:"percent_of_max,omitempty"`
	Status            Grade    `json:"status"`
}

// Report is the outcome of grading a full nutrient vector.
type Report struct {
	Findings        []Finding `json:"nutrient_status"`
	Overall         Grade     `json:"overall_status"`
	Warnings        []string  `json:"warnings"`
	Recommendations []string  `json:"recommendations"`
}

// gradeRow applies the status ladder in strict order; the first matching rung
// wins.
func gradeRow(per1000 float64, row Row) Grade {
	switch {
	case per1000 < row.MinPer1000Kcal*0.5:
		return GradeBad
	case per1000 < row.MinPer1000Kcal:
		return GradeCaution
	case row.MaxPer1000Kcal != nil && per1000 > *row.MaxPer1000Kcal:
		return GradeDangerous
	case row.MaxPer1000Kcal != nil && per1000 > *row.MaxPer1000Kcal*0.8:
		return GradeCaution
	case per1000 >= row.MinPer1000Kcal && per1000 <= row.MinPer1000Kcal*1.5:
		return GradeExcellent
	default:
		return GradeGood
	}
}

// Grade runs the simulation-path ladder for every reference row, folding the
// single worst grade into the report's overall status. Deficient or excess
// nutrients gain warnings; bad or dangerous ones gain actionable
// recommendations.
func (e *Evaluator) Grade(totals nutrition.Vector) Report {
	report := Report{Overall: GradeExcellent}
	if totals.Kcal <= 0 {
		return report
	}

	for _, row := range e.rows {
		display := row.Channel.DisplayName()
		per1000 := PerThousandKcal(referenceAmount(totals, row.Channel), totals.Kcal)

		pctOfMin := 100.0
		if row.MinPer1000Kcal > 0 {
			pctOfMin = per1000 / row.MinPer1000Kcal * 100
		}
		var pctOfMax *float64
		if row.MaxPer1000Kcal != nil {
			pct := per1000 / *row.MaxPer1000Kcal * 100
			pctOfMax = &pct
		}

		status := gradeRow(per1000, row)
		switch status {
		case GradeBad:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s is severely deficient (%.0f%% of minimum)", display, pctOfMin))
		case GradeCaution:
			if per1000 < row.MinPer1000Kcal {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("%s is below minimum (%.0f%% of minimum)", display, pctOfMin))
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("%s is approaching maximum limit", display))
			}
		case GradeDangerous:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s EXCEEDS SAFE LIMIT (%.0f%% of maximum)", display, *pctOfMax))
		}

		report.Overall = Worse(report.Overall, status)

		finding := Finding{
			Nutrient:          display,
			AmountPer1000Kcal: mathutil.Round(per1000),
			PercentOfMin:      roundTenth(pctOfMin),
			Status:            status,
		}
		if pctOfMax != nil {
			rounded := roundTenth(*pctOfMax)
			finding.PercentOfMax = &rounded
		}
		report.Findings = append(report.Findings, finding)
	}

	for _, finding := range report.Findings {
		switch finding.Status {
		case GradeBad:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Add more foods rich in %s", strings.ToLower(finding.Nutrient)))
		case GradeDangerous:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("REDUCE foods high in %s immediately", strings.ToLower(finding.Nutrient)))
		}
	}

	return report
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
