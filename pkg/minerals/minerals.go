// Package minerals analyzes the calcium-to-phosphorus ratio of a diet and
// sizes corrective calcium supplementation.
package minerals

import (
	"fmt"

	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/mathutil"
)

// RatioStatus classifies a Ca:P ratio.
type RatioStatus string

const (
	RatioUnknown    RatioStatus = "unknown"
	RatioOptimal    RatioStatus = "optimal"
	RatioAcceptable RatioStatus = "acceptable"
	RatioLow        RatioStatus = "low"
	RatioHigh       RatioStatus = "high"
)

// Analysis is the outcome of a Ca:P ratio check. CalciumGapMg and
// EggshellGrams are set only for a low ratio, sized to restore 1:1.
type Analysis struct {
	CalciumMg     float64     `json:"total_calcium_mg"`
	PhosphorusMg  float64     `json:"total_phosphorus_mg"`
	Ratio         float64     `json:"ca_p_ratio"`
	Status        RatioStatus `json:"status"`
	CalciumGapMg  *float64    `json:"calcium_gap_mg,omitempty"`
	EggshellGrams *float64    `json:"eggshell_recommendation_g,omitempty"`
	Message       string      `json:"message"`
}

// Analyze classifies the calcium-to-phosphorus mass ratio. With no
// phosphorus the ratio is undefined and reported as unknown rather than
// dividing by zero.
func Analyze(calciumMg, phosphorusMg float64) Analysis {
	analysis := Analysis{
		CalciumMg:    mathutil.Round(calciumMg),
		PhosphorusMg: mathutil.Round(phosphorusMg),
	}

	if phosphorusMg <= 0 {
		analysis.Status = RatioUnknown
		analysis.Message = "Phosphorus is zero; Ca:P ratio cannot be assessed"
		return analysis
	}

	ratio := calciumMg / phosphorusMg
	analysis.Ratio = mathutil.Round(ratio)

	switch {
	case ratio > constants.CaPRatioOptimalHigh:
		analysis.Status = RatioHigh
		analysis.Message = fmt.Sprintf("Ca:P ratio %.2f:1 is too high; reduce calcium sources", ratio)
	case ratio >= constants.CaPRatioOptimalLow:
		analysis.Status = RatioOptimal
		analysis.Message = fmt.Sprintf("Ca:P ratio %.2f:1 is in the optimal range", ratio)
	case ratio >= constants.CaPRatioAcceptableLow:
		analysis.Status = RatioAcceptable
		analysis.Message = fmt.Sprintf("Ca:P ratio %.2f:1 is acceptable but below the optimal range", ratio)
	default:
		analysis.Status = RatioLow
		gap := phosphorusMg*constants.CaPRatioAcceptableLow - calciumMg
		eggshell := gap / (constants.EggshellCalciumFraction * constants.MgPerGram)
		roundedGap := mathutil.Round(gap)
		roundedEggshell := mathutil.Round(eggshell)
		analysis.CalciumGapMg = &roundedGap
		analysis.EggshellGrams = &roundedEggshell
		analysis.Message = fmt.Sprintf("Ca:P ratio %.2f:1 is too low; calcium is %.0f mg short of a 1:1 ratio", ratio, gap)
	}

	return analysis
}
