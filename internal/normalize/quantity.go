// Package normalize turns free-text recipe quantities and ingredient names into
// canonical values that can be summed and compared across recipes.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Quantity patterns, tried in order. Each one is anchored at the start of the input.
var (
	rangePattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)`)
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)`)
	numberPattern   = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
)

// vagueQuantities are amounts that carry no number and count as one unit
var vagueQuantities = map[string]bool{
	"":         true,
	"to taste": true,
	"pinch":    true,
	"dash":     true,
	"some":     true,
}

const defaultQuantity = 1.0

// vulgarFractions rewrites single-glyph fractions so "2½" reads as "2 1/2"
var vulgarFractions = strings.NewReplacer(
	"½", " 1/2",
	"¼", " 1/4",
	"¾", " 3/4",
	"⅓", " 1/3",
	"⅔", " 2/3",
	"⅛", " 1/8",
)

// ParseQuantityString converts recipe quantity text to a number.
// It never fails: anything it cannot read counts as 1.
func ParseQuantityString(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(vulgarFractions.Replace(s)))
	if vagueQuantities[s] {
		return defaultQuantity
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		return positiveOrDefault((parseFloat(m[1]) + parseFloat(m[2])) / 2)
	}

	if m := mixedPattern.FindStringSubmatch(s); m != nil {
		if frac, ok := divide(m[2], m[3]); ok {
			return positiveOrDefault(parseFloat(m[1]) + frac)
		}
		return defaultQuantity
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		if frac, ok := divide(m[1], m[2]); ok {
			return positiveOrDefault(frac)
		}
		return defaultQuantity
	}

	if m := numberPattern.FindStringSubmatch(s); m != nil {
		return positiveOrDefault(parseFloat(m[1]))
	}

	return defaultQuantity
}

// positiveOrDefault keeps parsed amounts strictly positive; "0" reads as one unit
func positiveOrDefault(v float64) float64 {
	if v > 0 {
		return v
	}
	return defaultQuantity
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// divide returns n/d, or false for a zero denominator
func divide(n, d string) (float64, bool) {
	den := parseFloat(d)
	if den == 0 {
		return 0, false
	}
	return parseFloat(n) / den, true
}
