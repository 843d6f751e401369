package kibble

import (
	"math"
	"testing"
)

func pct(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	n := NewNormalizer(ModifiedAtwater())

	label := Label{
		ProteinPct:   25,
		FatPct:       15,
		FiberPct:     4,
		MoisturePct:  10,
		AshPct:       8,
		ServingGrams: 100,
	}

	result := n.Normalize(label)

	// NFE = 100 - (25+15+4+10+8) = 38
	if math.Abs(result.NFEPct-38) > 0.001 {
		t.Errorf("NFEPct = %v, expected 38", result.NFEPct)
	}
	if result.HighFiller {
		t.Error("38% NFE should not trip the high filler flag")
	}

	if math.Abs(result.Nutrients.ProteinG-25) > 0.001 {
		t.Errorf("ProteinG = %v, expected 25", result.Nutrients.ProteinG)
	}
	if math.Abs(result.Nutrients.FatG-15) > 0.001 {
		t.Errorf("FatG = %v, expected 15", result.Nutrients.FatG)
	}
	if math.Abs(result.Nutrients.CarbsG-38) > 0.001 {
		t.Errorf("CarbsG = %v, expected 38", result.Nutrients.CarbsG)
	}

	// 25*3.5 + 15*8.5 + 38*3.5 = 348, fiber contributes nothing
	if math.Abs(result.Nutrients.Kcal-348) > 0.001 {
		t.Errorf("Kcal = %v, expected 348", result.Nutrients.Kcal)
	}

	if result.Nutrients.CalciumMg != 0 || result.Nutrients.PhosphorusMg != 0 {
		t.Error("minerals should stay zero when the label omits them")
	}
}

func TestNormalizeServingScaling(t *testing.T) {
	n := NewNormalizer(ModifiedAtwater())
	label := Label{ProteinPct: 25, FatPct: 15, FiberPct: 4, MoisturePct: 10, AshPct: 8, ServingGrams: 100}

	single := n.Normalize(label)
	label.ServingGrams = 200
	double := n.Normalize(label)

	if math.Abs(double.Nutrients.Kcal-2*single.Nutrients.Kcal) > 0.001 {
		t.Errorf("doubling the serving should double kcal: %v vs %v", double.Nutrients.Kcal, single.Nutrients.Kcal)
	}
	if double.NFEPct != single.NFEPct {
		t.Errorf("NFE percentage must not depend on serving size: %v vs %v", double.NFEPct, single.NFEPct)
	}
}

func TestNormalizeWithMinerals(t *testing.T) {
	n := NewNormalizer(ModifiedAtwater())
	label := Label{
		ProteinPct:    25,
		FatPct:        15,
		FiberPct:      4,
		MoisturePct:   10,
		AshPct:        8,
		CalciumPct:    pct(1.2),
		PhosphorusPct: pct(1.0),
		ServingGrams:  100,
	}

	result := n.Normalize(label)
	if math.Abs(result.Nutrients.CalciumMg-1200) > 0.001 {
		t.Errorf("CalciumMg = %v, expected 1200", result.Nutrients.CalciumMg)
	}
	if math.Abs(result.Nutrients.PhosphorusMg-1000) > 0.001 {
		t.Errorf("PhosphorusMg = %v, expected 1000", result.Nutrients.PhosphorusMg)
	}
}

func TestNormalizeHighFiller(t *testing.T) {
	n := NewNormalizer(ModifiedAtwater())
	label := Label{
		ProteinPct:   20,
		FatPct:       10,
		FiberPct:     3,
		MoisturePct:  10,
		AshPct:       6,
		ServingGrams: 100,
	}

	result := n.Normalize(label)
	if math.Abs(result.NFEPct-51) > 0.001 {
		t.Errorf("NFEPct = %v, expected 51", result.NFEPct)
	}
	if !result.HighFiller {
		t.Error("51% NFE should trip the high filler flag")
	}
}

func TestNormalizeOverstatedLabel(t *testing.T) {
	n := NewNormalizer(ModifiedAtwater())
	// Components summing past 100 clamp NFE at zero instead of going negative.
	label := Label{
		ProteinPct:   40,
		FatPct:       30,
		FiberPct:     10,
		MoisturePct:  15,
		AshPct:       10,
		ServingGrams: 100,
	}

	result := n.Normalize(label)
	if result.NFEPct != 0 {
		t.Errorf("NFEPct = %v, expected 0", result.NFEPct)
	}
	if result.Nutrients.CarbsG != 0 {
		t.Errorf("CarbsG = %v, expected 0", result.Nutrients.CarbsG)
	}
}
