package domain

import "time"

// MatchType names the tier that produced a match
type MatchType string

const (
	MatchTypeExact   MatchType = "exact"
	MatchTypeSynonym MatchType = "synonym"
	MatchTypeFuzzy   MatchType = "fuzzy"
	MatchTypePartial MatchType = "partial"
)

// MatchResult links an ingredient name to one catalog product
type MatchResult struct {
	IngredientName  string    `json:"ingredient_name"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ConfidenceScore float64   `json:"confidence_score"`
	MatchType       MatchType `json:"match_type"`
	MatchedTerm     string    `json:"matched_term"`
}

// ComputeSummary reports the outcome of a bulk matching run.
// TotalIngredients == IngredientsMatched + IngredientsNoMatch + Errors once the run completes.
type ComputeSummary struct {
	RunID               string        `json:"run_id"`
	TotalIngredients    int           `json:"total_ingredients"`
	IngredientsMatched  int           `json:"ingredients_matched"`
	TotalMatchesCreated int           `json:"total_matches_created"`
	IngredientsNoMatch  int           `json:"ingredients_no_match"`
	Errors              int           `json:"errors"`
	Duration            time.Duration `json:"duration"`
}

// Processed returns the number of ingredients handled so far
func (s *ComputeSummary) Processed() int {
	return s.IngredientsMatched + s.IngredientsNoMatch + s.Errors
}
