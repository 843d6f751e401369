package nutrition

import "testing"

func TestParseChannel(t *testing.T) {
	for channel, name := range channelNames {
		parsed, ok := ParseChannel(name)
		if !ok {
			t.Errorf("ParseChannel(%q) not found", name)
			continue
		}
		if parsed != channel {
			t.Errorf("ParseChannel(%q) = %v, expected %v", name, parsed, channel)
		}
	}

	if _, ok := ParseChannel("magnesium"); ok {
		t.Error("ParseChannel should reject unmapped nutrient names")
	}
}

func TestChannelAmount(t *testing.T) {
	v := Vector{
		ProteinG:     31,
		FatG:         3.6,
		CalciumMg:    15,
		PhosphorusMg: 196,
		IronMg:       1.04,
		ZincMg:       1.0,
		VitaminAMcg:  6,
		VitaminDMcg:  0.1,
		VitaminEMg:   0.27,
	}

	tests := []struct {
		channel  Channel
		expected float64
	}{
		{ChannelProtein, 31},
		{ChannelFat, 3.6},
		{ChannelCalcium, 15},
		{ChannelPhosphorus, 196},
		{ChannelIron, 1.04},
		{ChannelZinc, 1.0},
		{ChannelVitaminA, 6},
		{ChannelVitaminD, 0.1},
		{ChannelVitaminE, 0.27},
	}

	for _, tt := range tests {
		t.Run(tt.channel.String(), func(t *testing.T) {
			if got := v.Amount(tt.channel); got != tt.expected {
				t.Errorf("Amount(%v) = %v, expected %v", tt.channel, got, tt.expected)
			}
		})
	}
}

func TestGramBased(t *testing.T) {
	if !ChannelProtein.GramBased() || !ChannelFat.GramBased() {
		t.Error("protein and fat are gram based")
	}
	if ChannelCalcium.GramBased() || ChannelVitaminD.GramBased() {
		t.Error("minerals and vitamins are not gram based")
	}
}
