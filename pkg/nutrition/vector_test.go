package nutrition

import (
	"math"
	"testing"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		grams    float64
		per100g  float64
		expected float64
	}{
		{"Exactly 100 grams", 100, 31, 31},
		{"Double portion", 200, 31, 62},
		{"Half portion", 50, 31, 15.5},
		{"Zero grams", 0, 31, 0},
		{"Zero density", 150, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Amount(tt.grams, tt.per100g)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Amount(%v, %v) = %v, expected %v", tt.grams, tt.per100g, result, tt.expected)
			}
		})
	}
}

func TestAggregateLinearity(t *testing.T) {
	chicken := Vector{Kcal: 165, ProteinG: 31, FatG: 3.6, CalciumMg: 15, PhosphorusMg: 196}

	single := Aggregate([]ScaledIngredient{{Grams: 100, Per100g: chicken}})
	double := Aggregate([]ScaledIngredient{{Grams: 200, Per100g: chicken}})

	if math.Abs(double.Kcal-2*single.Kcal) > 1e-9 {
		t.Errorf("doubling grams should double kcal: %v vs %v", double.Kcal, single.Kcal)
	}
	if math.Abs(double.ProteinG-2*single.ProteinG) > 1e-9 {
		t.Errorf("doubling grams should double protein: %v vs %v", double.ProteinG, single.ProteinG)
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	entries := []ScaledIngredient{
		{Grams: 150, Per100g: Vector{Kcal: 165, ProteinG: 31, PhosphorusMg: 196}},
		{Grams: 100, Per100g: Vector{Kcal: 130, CarbsG: 28, CalciumMg: 10}},
		{Grams: 30, Per100g: Vector{Kcal: 175, IronMg: 6.54, VitaminAMcg: 9442}},
	}
	reversed := []ScaledIngredient{entries[2], entries[1], entries[0]}

	forward := Aggregate(entries)
	backward := Aggregate(reversed)

	if !withinRelative(forward.Kcal, backward.Kcal, 1e-6) {
		t.Errorf("aggregation is order dependent: %v vs %v", forward.Kcal, backward.Kcal)
	}
	if !withinRelative(forward.VitaminAMcg, backward.VitaminAMcg, 1e-6) {
		t.Errorf("aggregation is order dependent: %v vs %v", forward.VitaminAMcg, backward.VitaminAMcg)
	}
}

func withinRelative(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= larger*tolerance
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	if totals != (Vector{}) {
		t.Errorf("Aggregate(nil) = %+v, expected zero vector", totals)
	}
}

func TestVectorAdd(t *testing.T) {
	a := Vector{Kcal: 100, ProteinG: 10, CalciumMg: 200}
	b := Vector{Kcal: 50, FatG: 5, CalciumMg: 100}

	sum := a.Add(b)
	if sum.Kcal != 150 || sum.ProteinG != 10 || sum.FatG != 5 || sum.CalciumMg != 300 {
		t.Errorf("Add produced %+v", sum)
	}
}

func TestVectorRounded(t *testing.T) {
	v := Vector{Kcal: 123.456, ProteinG: 9.994}
	rounded := v.Rounded()
	if rounded.Kcal != 123.46 {
		t.Errorf("Rounded kcal = %v, expected 123.46", rounded.Kcal)
	}
	if rounded.ProteinG != 9.99 {
		t.Errorf("Rounded protein = %v, expected 9.99", rounded.ProteinG)
	}
}
