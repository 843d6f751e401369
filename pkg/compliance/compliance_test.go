package compliance

import (
	"math"
	"testing"

	"github.com/kwehner/pup-planner/pkg/nutrition"
)

func TestPerThousandKcal(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		totalKcal float64
		expected  float64
	}{
		{"Half thousand", 50, 500, 100},
		{"Exactly thousand", 45, 1000, 45},
		{"Zero calories", 50, 0, 0},
		{"Negative calories", 50, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PerThousandKcal(tt.amount, tt.totalKcal)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("PerThousandKcal(%v, %v) = %v, expected %v",
					tt.amount, tt.totalKcal, result, tt.expected)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		min         float64
		max         *float64
		expected    CheckStatus
		wantWarning bool
	}{
		{"Adequate", 1500, 1250, maxPtr(6250), StatusAdequate, false},
		{"Deficient", 1000, 1250, maxPtr(6250), StatusDeficient, true},
		{"Excess", 7000, 1250, maxPtr(6250), StatusExcess, true},
		{"No maximum never excess", 90000, 45000, nil, StatusAdequate, false},
		{"Exactly at minimum", 1250, 1250, maxPtr(6250), StatusAdequate, false},
		{"Exactly at maximum", 6250, 1250, maxPtr(6250), StatusAdequate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Check("calcium", tt.amount, tt.min, tt.max)
			if result.Status != tt.expected {
				t.Errorf("Check status = %v, expected %v", result.Status, tt.expected)
			}
			if (result.Warning != "") != tt.wantWarning {
				t.Errorf("Check warning = %q, wantWarning %v", result.Warning, tt.wantWarning)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(DefaultReference())

	// A 1000 kcal day that is adequate in protein but deficient in most
	// micronutrients.
	totals := nutrition.Vector{
		Kcal:         1000,
		ProteinG:     60,
		FatG:         20,
		CalciumMg:    1500,
		PhosphorusMg: 1200,
	}

	results := e.Evaluate(totals)
	if len(results) != len(DefaultReference()) {
		t.Fatalf("Evaluate returned %d rows, expected %d", len(results), len(DefaultReference()))
	}

	byName := make(map[string]CheckResult, len(results))
	for _, r := range results {
		byName[r.Nutrient] = r
	}

	if byName["protein"].Status != StatusAdequate {
		t.Errorf("protein status = %v, expected adequate", byName["protein"].Status)
	}
	if math.Abs(byName["protein"].AmountPer1000Kcal-60000) > 0.01 {
		t.Errorf("protein per 1000 kcal = %v, expected 60000 (gram channel in mg)",
			byName["protein"].AmountPer1000Kcal)
	}
	if byName["calcium"].Status != StatusAdequate {
		t.Errorf("calcium status = %v, expected adequate", byName["calcium"].Status)
	}
	if byName["iron"].Status != StatusDeficient {
		t.Errorf("iron status = %v, expected deficient", byName["iron"].Status)
	}
}

func TestEvaluateZeroCalories(t *testing.T) {
	e := NewEvaluator(DefaultReference())
	if results := e.Evaluate(nutrition.Vector{CalciumMg: 500}); results != nil {
		t.Errorf("Evaluate with zero kcal = %v, expected nil", results)
	}
}
