package minerals

import (
	"math"
	"testing"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name         string
		calciumMg    float64
		phosphorusMg float64
		expected     RatioStatus
	}{
		{"Optimal lower bound", 1100, 1000, RatioOptimal},
		{"Optimal middle", 1500, 1000, RatioOptimal},
		{"Optimal upper bound", 2000, 1000, RatioOptimal},
		{"Acceptable", 1050, 1000, RatioAcceptable},
		{"Exactly one to one", 1000, 1000, RatioAcceptable},
		{"Low", 900, 1000, RatioLow},
		{"High", 2500, 1000, RatioHigh},
		{"Zero phosphorus", 500, 0, RatioUnknown},
		{"Negative phosphorus", 500, -10, RatioUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Analyze(tt.calciumMg, tt.phosphorusMg)
			if analysis.Status != tt.expected {
				t.Errorf("Analyze(%v, %v) status = %v, expected %v",
					tt.calciumMg, tt.phosphorusMg, analysis.Status, tt.expected)
			}
		})
	}
}

func TestAnalyzeLowRatioSupplementation(t *testing.T) {
	analysis := Analyze(900, 1000)

	if analysis.Status != RatioLow {
		t.Fatalf("status = %v, expected low", analysis.Status)
	}
	if math.Abs(analysis.Ratio-0.9) > 0.001 {
		t.Errorf("ratio = %v, expected 0.9", analysis.Ratio)
	}
	if analysis.CalciumGapMg == nil || analysis.EggshellGrams == nil {
		t.Fatal("low ratio must size the calcium gap and eggshell amount")
	}

	// Gap restores 1:1 and eggshell powder is 38% elemental calcium.
	if math.Abs(*analysis.CalciumGapMg-100) > 0.001 {
		t.Errorf("calcium gap = %v, expected 100", *analysis.CalciumGapMg)
	}
	if math.Abs(*analysis.EggshellGrams-0.26) > 0.001 {
		t.Errorf("eggshell grams = %v, expected 0.26", *analysis.EggshellGrams)
	}

	// Adding the recommended calcium brings the ratio back to balance.
	corrected := Analyze(900+*analysis.CalciumGapMg, 1000)
	if corrected.Status == RatioLow {
		t.Errorf("corrected ratio still low: %+v", corrected)
	}
}

func TestAnalyzeHealthyFieldsStayNil(t *testing.T) {
	analysis := Analyze(1500, 1000)
	if analysis.CalciumGapMg != nil || analysis.EggshellGrams != nil {
		t.Errorf("optimal ratio must not carry supplementation fields: %+v", analysis)
	}
	if analysis.Message == "" {
		t.Error("analysis should always carry a message")
	}
}
