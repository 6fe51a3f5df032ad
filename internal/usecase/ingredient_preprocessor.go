package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for ingredient preprocessing
var (
	// Matches a leading amount and optional unit: "2 cups", "1/2 tsp", "1 ½", "500g", "2 lbs"
	leadingAmountPattern = regexp.MustCompile(`^[\d½¼¾⅓⅔⅛]+(?:/\d+)?\s*(?:[\d½¼¾⅓⅔⅛]+(?:/\d+)?)?\s*(?:(?:cups?|tbsps?|tablespoons?|tsps?|teaspoons?|oz|ounces?|g|grams?|kg|kilos?|ml|l|liters?|litres?|lbs?|pounds?)\b)?\s*`)

	// Matches parenthetical notes like "(softened)"
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
)

// stopPhrases are multi-word stop terms removed before word filtering
var stopPhrases = []string{"room temperature", "extra virgin", "to taste", "for serving"}

// ingredientStopWords carry preparation, state or colour but not identity
var ingredientStopWords = map[string]bool{
	// Preparation
	"fresh": true, "freshly": true, "dried": true, "chopped": true, "finely": true,
	"roughly": true, "coarsely": true, "thinly": true, "diced": true, "minced": true,
	"sliced": true, "grated": true, "shredded": true, "crushed": true, "ground": true,
	"whole": true, "halved": true, "quartered": true, "cubed": true, "julienned": true,
	"peeled": true, "deseeded": true, "seeded": true, "pitted": true, "trimmed": true,
	"washed": true, "rinsed": true, "drained": true, "beaten": true, "sifted": true,
	"toasted": true, "softened": true, "melted": true,
	// Size
	"large": true, "medium": true, "small": true,
	// State
	"raw": true, "cooked": true, "frozen": true, "canned": true, "tinned": true,
	"organic": true, "free-range": true, "boneless": true, "skinless": true,
	"ripe": true, "unripe": true, "cold": true, "warm": true, "hot": true,
	// Dairy and fat qualifiers
	"plain": true, "unsalted": true, "salted": true, "sweetened": true,
	"unsweetened": true, "low-fat": true, "full-fat": true, "reduced-fat": true,
	"skimmed": true, "semi-skimmed": true, "virgin": true, "light": true,
	// Colour
	"dark": true, "white": true, "brown": true, "black": true, "red": true,
	"green": true, "yellow": true,
	// Recipe filler
	"optional": true, "divided": true, "packed": true, "heaped": true,
	"level": true, "about": true, "approximately": true, "extra": true,
	"good": true, "quality": true, "garnish": true, "a": true, "an": true,
	"plus": true, "some": true, "chilled": true, "thawed": true,
}

var stopPhrasePattern = func() *regexp.Regexp {
	quoted := make([]string, len(stopPhrases))
	for i, p := range stopPhrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

// IngredientPreprocessor reduces recipe ingredient text to a catalog search term.
// Its vocabulary is wider than the aggregation key normalizer in package normalize
// and the two are kept separate.
type IngredientPreprocessor struct{}

// NewIngredientPreprocessor creates a new ingredient preprocessor
func NewIngredientPreprocessor() *IngredientPreprocessor {
	return &IngredientPreprocessor{}
}

// Normalize cleans an ingredient name for matching.
// "2 cups fresh chopped onion" becomes "onion".
func (p *IngredientPreprocessor) Normalize(name string) string {
	// Step 1: Unicode NFC, lowercase, trim
	cleaned := strings.TrimSpace(strings.ToLower(norm.NFC.String(name)))
	if cleaned == "" {
		return ""
	}

	// Step 2: Remove a leading amount and unit
	cleaned = leadingAmountPattern.ReplaceAllString(cleaned, "")

	// Step 3: Remove parenthetical notes
	cleaned = parentheticalPattern.ReplaceAllString(cleaned, " ")

	// Step 4: Remove stop phrases and stop words
	cleaned = stopPhrasePattern.ReplaceAllString(cleaned, " ")
	words := strings.Fields(cleaned)
	kept := words[:0]
	for _, w := range words {
		if !ingredientStopWords[w] {
			kept = append(kept, w)
		}
	}

	// Step 5: Normalize whitespace
	return strings.Join(kept, " ")
}
