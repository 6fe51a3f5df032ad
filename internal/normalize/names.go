package normalize

import (
	"regexp"
	"strings"
)

// preparationDescriptors are removed from ingredient names to form aggregation keys
var preparationDescriptors = []string{
	"fresh", "dried", "frozen", "canned", "chopped", "diced", "minced",
	"sliced", "grated", "shredded", "crushed", "ground", "whole", "halved",
	"quartered", "peeled", "seeded", "pitted", "boneless", "skinless",
	"cooked", "raw", "organic", "free-range", "free range",
}

var (
	descriptorPattern = buildDescriptorPattern(preparationDescriptors)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// leading amount: integer, decimal, fraction or mixed number, then the rest
	measurePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:\s*/\s*\d+)?(?:\s+\d+/\d+)?)\s*(.*)$`)
	numericPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

func buildDescriptorPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// NormalizeIngredientName reduces an ingredient name to its aggregation key
func NormalizeIngredientName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = descriptorPattern.ReplaceAllString(n, " ")
	return collapseSpaces(n)
}

// ExtractQuantityAndUnit splits a combined measure such as "1 1/2 cups" into
// its amount and unit text.
func ExtractQuantityAndUnit(measure string) (string, string) {
	m := strings.TrimSpace(measure)
	if m == "" {
		return "1", ""
	}

	if parts := measurePattern.FindStringSubmatch(m); parts != nil {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
	}

	if IsMeasureUnit(strings.ToLower(m)) {
		return "1", m
	}

	if numericPattern.MatchString(m) {
		return m, ""
	}

	return "1", m
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
