package nutrition

// Channel identifies one nutrient channel of a Vector. Reference tables
// address channels through this type rather than free-form strings so an
// unmapped nutrient name cannot silently contribute zero.
type Channel int

const (
	ChannelProtein Channel = iota
	ChannelFat
	ChannelCalcium
	ChannelPhosphorus
	ChannelIron
	ChannelZinc
	ChannelVitaminA
	ChannelVitaminD
	ChannelVitaminE
)

var channelNames = map[Channel]string{
	ChannelProtein:    "protein",
	ChannelFat:        "fat",
	ChannelCalcium:    "calcium",
	ChannelPhosphorus: "phosphorus",
	ChannelIron:       "iron",
	ChannelZinc:       "zinc",
	ChannelVitaminA:   "vitamin_a",
	ChannelVitaminD:   "vitamin_d",
	ChannelVitaminE:   "vitamin_e",
}

var channelDisplayNames = map[Channel]string{
	ChannelProtein:    "Protein",
	ChannelFat:        "Fat",
	ChannelCalcium:    "Calcium",
	ChannelPhosphorus: "Phosphorus",
	ChannelIron:       "Iron",
	ChannelZinc:       "Zinc",
	ChannelVitaminA:   "Vitamin A",
	ChannelVitaminD:   "Vitamin D",
	ChannelVitaminE:   "Vitamin E",
}

// String returns the stable lowercase identifier used in reference data.
func (c Channel) String() string {
	return channelNames[c]
}

// DisplayName returns the human-readable channel name.
func (c Channel) DisplayName() string {
	return channelDisplayNames[c]
}

// ParseChannel resolves a reference-table nutrient name to its channel.
func ParseChannel(name string) (Channel, bool) {
	for c, n := range channelNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// Amount returns the value of the given channel from v, in the channel's
// native unit (grams for protein/fat, milligrams or micrograms elsewhere).
func (v Vector) Amount(c Channel) float64 {
	switch c {
	case ChannelProtein:
		return v.ProteinG
	case ChannelFat:
		return v.FatG
	case ChannelCalcium:
		return v.CalciumMg
	case ChannelPhosphorus:
		return v.PhosphorusMg
	case ChannelIron:
		return v.IronMg
	case ChannelZinc:
		return v.ZincMg
	case ChannelVitaminA:
		return v.VitaminAMcg
	case ChannelVitaminD:
		return v.VitaminDMcg
	case ChannelVitaminE:
		return v.VitaminEMg
	}
	return 0
}

// GramBased reports whether the channel is measured in grams and must be
// converted to a milligram equivalent when compared against reference rows.
func (c Channel) GramBased() bool {
	return c == ChannelProtein || c == ChannelFat
}
