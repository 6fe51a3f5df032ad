package normalize

import "strings"

// UnitType classifies a unit of measure
type UnitType string

const (
	UnitVolume  UnitType = "volume"
	UnitWeight  UnitType = "weight"
	UnitCount   UnitType = "count"
	UnitUnknown UnitType = "unknown"
)

// Base units for each measurable type
const (
	BaseVolumeUnit = "ml"
	BaseWeightUnit = "g"
)

// volumeUnits maps volume aliases to milliliters
var volumeUnits = map[string]float64{
	"ml": 1, "milliliter": 1, "milliliters": 1, "millilitre": 1, "millilitres": 1,
	"l": 1000, "liter": 1000, "liters": 1000, "litre": 1000, "litres": 1000,
	"dl": 100, "deciliter": 100, "deciliters": 100,
	"cl": 10, "centiliter": 10, "centiliters": 10,
	"cup": 236.588, "cups": 236.588,
	"tbsp": 14.787, "tablespoon": 14.787, "tablespoons": 14.787, "tbs": 14.787,
	"tsp": 4.929, "teaspoon": 4.929, "teaspoons": 4.929,
	"fl oz": 29.574, "fluid ounce": 29.574, "fluid ounces": 29.574,
	"pint": 473.176, "pints": 473.176, "pt": 473.176,
	"quart": 946.353, "quarts": 946.353, "qt": 946.353,
	"gallon": 3785.41, "gallons": 3785.41, "gal": 3785.41,
}

// weightUnits maps weight aliases to grams
var weightUnits = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"mg": 0.001, "milligram": 0.001, "milligrams": 0.001,
	"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
	"lb": 453.592, "lbs": 453.592, "pound": 453.592, "pounds": 453.592,
}

// countUnits are nouns that count discrete items
var countUnits = map[string]bool{
	"piece": true, "pieces": true, "pc": true, "pcs": true, "whole": true,
	"slice": true, "slices": true, "clove": true, "cloves": true,
	"head": true, "heads": true, "bunch": true, "bunches": true,
	"sprig": true, "sprigs": true, "can": true, "cans": true,
	"jar": true, "jars": true, "package": true, "packages": true,
	"pkg": true, "pack": true, "packs": true, "bottle": true, "bottles": true,
	"bag": true, "bags": true, "box": true, "boxes": true,
	"stick": true, "sticks": true, "fillet": true, "fillets": true,
	"breast": true, "breasts": true, "thigh": true, "thighs": true,
	"leg": true, "legs": true, "wing": true, "wings": true,
}

// sizeDescriptors scale count units; matched as substrings in this order
var sizeDescriptors = []struct {
	name       string
	multiplier float64
}{
	{"small", 0.75},
	{"medium", 1.0},
	{"large", 1.5},
	{"extra large", 2.0},
	{"xl", 2.0},
}

// IdentifyUnitType classifies a unit and returns its factor to the base unit.
// Unrecognized units yield (UnitUnknown, 1).
func IdentifyUnitType(unit string) (UnitType, float64) {
	u := strings.ToLower(strings.TrimSpace(unit))

	if factor, ok := volumeUnits[u]; ok {
		return UnitVolume, factor
	}
	if factor, ok := weightUnits[u]; ok {
		return UnitWeight, factor
	}
	if countUnits[u] {
		return UnitCount, 1.0
	}
	for _, size := range sizeDescriptors {
		if strings.Contains(u, size.name) {
			return UnitCount, size.multiplier
		}
	}

	return UnitUnknown, 1.0
}

// IsMeasureUnit reports whether unit is a known volume or weight unit
func IsMeasureUnit(unit string) bool {
	t, _ := IdentifyUnitType(unit)
	return t == UnitVolume || t == UnitWeight
}

// NormalizeQuantity parses quantity text and converts it to the base unit of its type
func NormalizeQuantity(quantity, unit string) NormalizedQuantity {
	original := quantity
	if strings.TrimSpace(original) == "" {
		original = "1"
	}
	return normalize(ParseQuantityString(quantity), original, unit)
}

// NormalizeQuantityValue is NormalizeQuantity for an amount that is already numeric
func NormalizeQuantityValue(value float64, unit string) NormalizedQuantity {
	if value <= 0 {
		value = defaultQuantity
	}
	return normalize(value, formatNumber(value), unit)
}

func normalize(value float64, original, unit string) NormalizedQuantity {
	if strings.TrimSpace(unit) == "" {
		return NormalizedQuantity{
			Value:            value,
			Unit:             "",
			UnitType:         UnitCount,
			OriginalQuantity: original,
			OriginalUnit:     "",
		}
	}

	unitType, factor := IdentifyUnitType(unit)

	var base string
	switch unitType {
	case UnitVolume:
		base = BaseVolumeUnit
	case UnitWeight:
		base = BaseWeightUnit
	case UnitCount:
		base = strings.ToLower(strings.TrimSpace(unit))
	default:
		base = unit
	}

	return NormalizedQuantity{
		Value:            value * factor,
		Unit:             base,
		UnitType:         unitType,
		OriginalQuantity: original,
		OriginalUnit:     unit,
	}
}

// CanAggregate reports whether quantities in the two units can be summed.
// Two unrecognized units are compatible because only the type label is compared.
func CanAggregate(unit1, unit2 string) bool {
	type1, _ := IdentifyUnitType(unit1)
	type2, _ := IdentifyUnitType(unit2)

	if type1 == UnitUnknown || type2 == UnitUnknown {
		return type1 == UnitUnknown && type2 == UnitUnknown
	}
	return type1 == type2
}
