package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/hbollon/go-edlib"
)

// Scorer rates the similarity of two strings from 0 to 100
type Scorer interface {
	Score(a, b string) float64
}

// Scorer names accepted in configuration
const (
	ScorerTokenSort   = "token_sort"
	ScorerLevenshtein = "levenshtein"
)

// NewScorer returns the scorer registered under name
func NewScorer(name string) (Scorer, error) {
	switch name {
	case "", ScorerTokenSort:
		return TokenSortRatio{}, nil
	case ScorerLevenshtein:
		return LevenshteinRatio{}, nil
	default:
		return nil, fmt.Errorf("unknown fuzzy scorer %q", name)
	}
}

// TokenSortRatio compares strings after sorting their whitespace tokens, so
// word order does not matter. The score is the normalized insertion/deletion
// similarity of the sorted forms.
type TokenSortRatio struct{}

// Score implements Scorer
func (TokenSortRatio) Score(a, b string) float64 {
	return indelRatio(sortTokens(a), sortTokens(b))
}

// LevenshteinRatio compares token-sorted strings by edit distance:
// 100 * (1 - distance/max(len(a), len(b))).
type LevenshteinRatio struct{}

// Score implements Scorer
func (LevenshteinRatio) Score(a, b string) float64 {
	a, b = sortTokens(a), sortTokens(b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(maxLen))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// indelRatio is 100 * (1 - indel/(len(a)+len(b))) where indel counts the
// insertions and deletions needed to turn a into b.
func indelRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	indel := edlib.LCSEditDistance(a, b)
	return 100 * (1 - float64(indel)/float64(total))
}

// scoredChoice is a candidate name and its similarity to the query
type scoredChoice struct {
	name  string
	score float64
}

// extractTop returns the limit best-scoring choices, highest first.
// Equal scores keep their order in choices.
func extractTop(query string, choices []string, scorer Scorer, limit int) []scoredChoice {
	if limit <= 0 || len(choices) == 0 {
		return nil
	}

	scored := make([]scoredChoice, len(choices))
	for i, c := range choices {
		scored[i] = scoredChoice{name: c, score: scorer.Score(query, c)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
