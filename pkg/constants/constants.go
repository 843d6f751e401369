// Package constants provides shared constants for the pup-planner application.
package constants

// Energy formula constants
const (
	// RERCoefficient is the multiplier in the resting energy requirement formula
	RERCoefficient = 70.0

	// RERExponent is the metabolic body weight exponent
	RERExponent = 0.75
)

// Ration composition constants
const (
	// GramsPerHundred converts per-100g densities to absolute amounts
	GramsPerHundred = 100.0

	// OilGramsPerMl approximates the density of culinary oils
	OilGramsPerMl = 0.92

	// MlPerTeaspoon is the volume of one teaspoon
	MlPerTeaspoon = 5.0

	// DefaultOilServingMl is the assumed per-meal oil serving when unspecified
	DefaultOilServingMl = 5.0

	// LbsPerKg converts kilograms to pounds for dosage charts
	LbsPerKg = 2.205

	// CoconutOilLbsPerTsp is the body weight covered by one safe daily teaspoon of coconut oil
	CoconutOilLbsPerTsp = 30.0

	// TurmericMaxGramsPerDay is the safe daily turmeric amount
	TurmericMaxGramsPerDay = 2.0

	// LiverMaxDietPercent is the maximum share of the diet liver should occupy
	LiverMaxDietPercent = 5.0
)

// Recipe percentage validation constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PercentageSumLow is the lower bound of the accepted percentage sum
	PercentageSumLow = 99.0

	// PercentageSumHigh is the upper bound of the accepted percentage sum
	PercentageSumHigh = 101.0
)

// Kibble label constants
const (
	// HighFillerNFEPercent flags a guaranteed analysis as carbohydrate-heavy
	HighFillerNFEPercent = 40.0

	// MgPerGram converts grams to milligrams
	MgPerGram = 1000.0
)

// Mineral ratio constants
const (
	// EggshellCalciumFraction is the elemental calcium share of eggshell powder by weight
	EggshellCalciumFraction = 0.38

	// CaPRatioOptimalLow and CaPRatioOptimalHigh bound the optimal Ca:P band
	CaPRatioOptimalLow  = 1.1
	CaPRatioOptimalHigh = 2.0

	// CaPRatioAcceptableLow is the floor of the acceptable Ca:P band
	CaPRatioAcceptableLow = 1.0
)

// Simulation constants
const (
	// SimulationReferenceGrams is the fixed batch mass simulations are scaled to,
	// chosen so percentages and grams stay numerically interchangeable
	SimulationReferenceGrams = 1000.0
)

// Plan request bounds
const (
	// MinPlanDays and MaxPlanDays bound the batch day count
	MinPlanDays = 1
	MaxPlanDays = 30

	// DefaultMealsPerDay is used when a recipe does not specify one
	DefaultMealsPerDay = 2
)

// Rounding constants
const (
	// DecimalPrecision is the precision for reported amounts (2 decimal places)
	DecimalPrecision = 100
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultDatabaseFile is the default sqlite database path
	DefaultDatabaseFile = "pup-planner.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultFoodDataBaseURL is the USDA FoodData Central API root
	DefaultFoodDataBaseURL = "https://api.nal.usda.gov/fdc/v1"
)
