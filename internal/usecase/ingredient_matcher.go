package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/foodplanner/backend/internal/domain"
	"github.com/foodplanner/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tier confidences
const (
	exactMatchScore    = 1.0
	synonymMatchScore  = 0.95
	partialMatchScore  = 0.55
	maxFuzzyConfidence = 0.95
)

// Fuzzy score thresholds (0-100)
const (
	highFuzzyThreshold   = 90.0
	mediumFuzzyThreshold = 75.0
	lowFuzzyThreshold    = 60.0
)

// Defaults used when MatcherConfig leaves a field unset
const (
	defaultTopK           = 3
	defaultMinConfidence  = 0.6
	defaultBatchSize      = 50
	defaultUnmatchedLimit = 10000
)

// MatcherConfig holds configuration for the ingredient matcher
type MatcherConfig struct {
	TopK           int
	MinConfidence  float64
	BatchSize      int
	UnmatchedLimit int
	Scorer         Scorer
}

// IngredientMatcher maps ingredient names onto catalog products in tiers:
// exact or synonym name hits, then fuzzy name similarity, then a head-noun
// substring fallback.
type IngredientMatcher struct {
	catalog      domain.CatalogSource
	store        domain.MatchStore
	cache        *cache.ProductCache
	preprocessor *IngredientPreprocessor
	synonyms     *SynonymResolver
	scorer       Scorer
	config       MatcherConfig
	logger       *zap.Logger
}

// NewIngredientMatcher creates a matcher. The product cache is owned by the
// caller so that several matchers can share one catalog index.
func NewIngredientMatcher(
	catalog domain.CatalogSource,
	store domain.MatchStore,
	productCache *cache.ProductCache,
	synonyms *SynonymResolver,
	config MatcherConfig,
	logger *zap.Logger,
) *IngredientMatcher {
	if config.TopK <= 0 {
		config.TopK = defaultTopK
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = defaultMinConfidence
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.UnmatchedLimit <= 0 {
		config.UnmatchedLimit = defaultUnmatchedLimit
	}
	if config.Scorer == nil {
		config.Scorer = TokenSortRatio{}
	}
	if productCache == nil {
		productCache = cache.NewProductCache()
	}
	if synonyms == nil {
		synonyms = NewSynonymResolver(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IngredientMatcher{
		catalog:      catalog,
		store:        store,
		cache:        productCache,
		preprocessor: NewIngredientPreprocessor(),
		synonyms:     synonyms,
		scorer:       config.Scorer,
		config:       config,
		logger:       logger.Named("matcher"),
	}
}

// Config returns the effective configuration
func (m *IngredientMatcher) Config() MatcherConfig {
	return m.config
}

// NormalizeIngredient reduces an ingredient name to its search term
func (m *IngredientMatcher) NormalizeIngredient(name string) string {
	return m.preprocessor.Normalize(name)
}

// Synonyms returns the one-hop synonym set of term
func (m *IngredientMatcher) Synonyms(term string) []string {
	return m.synonyms.Synonyms(term)
}

// InvalidateCache drops the product index; the next match reloads the catalog
func (m *IngredientMatcher) InvalidateCache() {
	m.cache.Invalidate()
	m.logger.Info("product cache invalidated")
}

// FindMatches returns at most topK matches with confidence >= minConfidence,
// best first. Only a catalog failure is returned as an error.
func (m *IngredientMatcher) FindMatches(ctx context.Context, ingredientName string, topK int, minConfidence float64) ([]domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := m.NormalizeIngredient(ingredientName)
	if normalized == "" {
		return []domain.MatchResult{}, nil
	}
	if topK <= 0 {
		topK = m.config.TopK
	}

	if err := m.cache.Load(ctx, m.catalog); err != nil {
		return nil, err
	}

	terms := m.Synonyms(normalized)
	seen := make(map[string]bool)

	matches := m.exactTier(ingredientName, normalized, terms, seen)
	matches = append(matches, m.fuzzyTier(ingredientName, terms, topK, seen)...)

	if len(matches) < topK {
		matches = append(matches, m.partialTier(ingredientName, normalized, matches, topK, seen)...)
	}

	return rankMatches(matches, topK, minConfidence), nil
}

// exactTier emits every product whose name equals a synonym term
func (m *IngredientMatcher) exactTier(ingredientName, normalized string, terms []string, seen map[string]bool) []domain.MatchResult {
	var matches []domain.MatchResult
	for _, term := range terms {
		products, ok := m.cache.Lookup(term)
		if !ok {
			continue
		}

		score, matchType := synonymMatchScore, domain.MatchTypeSynonym
		if term == normalized {
			score, matchType = exactMatchScore, domain.MatchTypeExact
		}

		for _, p := range products {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			matches = append(matches, newMatch(ingredientName, p, score, matchType, term))
		}
	}
	return matches
}

// fuzzyTier scores every synonym term against every cached product name
func (m *IngredientMatcher) fuzzyTier(ingredientName string, terms []string, topK int, seen map[string]bool) []domain.MatchResult {
	names := m.cache.Names()
	if len(names) == 0 {
		return nil
	}

	var matches []domain.MatchResult
	for _, term := range terms {
		for _, candidate := range extractTop(term, names, m.scorer, topK*2) {
			if candidate.score < lowFuzzyThreshold {
				continue
			}
			confidence := fuzzyConfidence(candidate.score)

			products, _ := m.cache.Lookup(candidate.name)
			for _, p := range products {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
				matches = append(matches, newMatch(ingredientName, p, confidence, domain.MatchTypeFuzzy, candidate.name))
			}
		}
	}
	return matches
}

// partialTier accepts product names containing the last word of a
// multi-word ingredient, up to 2*topK additional matches
func (m *IngredientMatcher) partialTier(ingredientName, normalized string, found []domain.MatchResult, topK int, seen map[string]bool) []domain.MatchResult {
	words := strings.Fields(normalized)
	if len(words) < 2 {
		return nil
	}
	head := words[len(words)-1]

	usedTerms := make(map[string]bool, len(found))
	for _, f := range found {
		usedTerms[f.MatchedTerm] = true
	}

	limit := topK * 2
	var matches []domain.MatchResult
	for _, name := range m.cache.Names() {
		if len(matches) >= limit {
			break
		}
		if usedTerms[name] || !strings.Contains(name, head) {
			continue
		}

		products, _ := m.cache.Lookup(name)
		for _, p := range products {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			matches = append(matches, newMatch(ingredientName, p, partialMatchScore, domain.MatchTypeFuzzy, name))
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// fuzzyConfidence maps a 0-100 similarity score to a confidence band
func fuzzyConfidence(score float64) float64 {
	var confidence float64
	switch {
	case score >= highFuzzyThreshold:
		confidence = 0.85 + (score-highFuzzyThreshold)*0.01
	case score >= mediumFuzzyThreshold:
		confidence = 0.70 + (score-mediumFuzzyThreshold)*0.01
	default:
		confidence = 0.50 + (score-lowFuzzyThreshold)*0.013
	}
	if confidence > maxFuzzyConfidence {
		confidence = maxFuzzyConfidence
	}
	return confidence
}

// rankMatches drops matches below minConfidence, sorts the rest by
// confidence (stable, so tier order breaks ties) and keeps topK
func rankMatches(matches []domain.MatchResult, topK int, minConfidence float64) []domain.MatchResult {
	kept := make([]domain.MatchResult, 0, len(matches))
	for _, match := range matches {
		if match.ConfidenceScore >= minConfidence {
			kept = append(kept, match)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].ConfidenceScore > kept[j].ConfidenceScore
	})

	if len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}

func newMatch(ingredientName string, p domain.Product, confidence float64, matchType domain.MatchType, term string) domain.MatchResult {
	return domain.MatchResult{
		IngredientName:  ingredientName,
		ProductID:       p.ID,
		ProductName:     p.Name,
		ConfidenceScore: confidence,
		MatchType:       matchType,
		MatchedTerm:     term,
	}
}

// MatchAndStore finds matches and persists each one. A match that fails to
// persist is logged and left out of the returned list.
func (m *IngredientMatcher) MatchAndStore(ctx context.Context, ingredientName string, topK int, minConfidence float64) ([]domain.MatchResult, error) {
	matches, err := m.FindMatches(ctx, ingredientName, topK, minConfidence)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.MatchResult, 0, len(matches))
	for _, match := range matches {
		err := m.store.UpsertMatch(ctx, match.IngredientName, match.ProductID, match.ConfidenceScore, match.MatchType)
		if err != nil {
			m.logger.Warn("failed to store match",
				zap.String("ingredient", ingredientName),
				zap.String("product", match.ProductName),
				zap.Error(err))
			continue
		}
		stored = append(stored, match)
	}
	return stored, nil
}

// ComputeOptions tunes a bulk matching run. Zero values fall back to the
// matcher configuration.
type ComputeOptions struct {
	MinConfidence float64
	TopK          int
	BatchSize     int
	Limit         int

	// OnProgress is called after each batch with processed and total counts
	OnProgress func(processed, total int)
}

// ComputeAllMatches matches and stores every ingredient the store reports as
// unmatched, one at a time in store order. Failures of single ingredients are
// counted in the summary; only a catalog or listing failure aborts the run.
// If ctx is cancelled the run stops between ingredients and the partial
// summary is returned together with ctx.Err().
func (m *IngredientMatcher) ComputeAllMatches(ctx context.Context, opts ComputeOptions) (*domain.ComputeSummary, error) {
	opts = m.withDefaults(opts)
	start := time.Now()

	summary := &domain.ComputeSummary{RunID: uuid.NewString()}
	log := m.logger.With(zap.String("run_id", summary.RunID))

	if err := m.cache.Load(ctx, m.catalog); err != nil {
		return nil, err
	}

	unmatched, err := m.store.ListUnmatchedIngredients(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	summary.TotalIngredients = len(unmatched)
	log.Info("found unmatched ingredients", zap.Int("count", len(unmatched)))

	for i := 0; i < len(unmatched); i += opts.BatchSize {
		end := i + opts.BatchSize
		if end > len(unmatched) {
			end = len(unmatched)
		}

		for _, name := range unmatched[i:end] {
			if err := ctx.Err(); err != nil {
				summary.Duration = time.Since(start)
				log.Warn("matching run cancelled",
					zap.Int("processed", summary.Processed()),
					zap.Int("total", summary.TotalIngredients))
				return summary, err
			}

			matches, err := m.matchOne(ctx, name, opts)
			switch {
			case err != nil:
				log.Error("error matching ingredient", zap.String("ingredient", name), zap.Error(err))
				summary.Errors++
			case len(matches) > 0:
				summary.IngredientsMatched++
				summary.TotalMatchesCreated += len(matches)
			default:
				summary.IngredientsNoMatch++
			}
		}

		log.Info("processed batch", zap.Int("processed", end), zap.Int("total", len(unmatched)))
		if opts.OnProgress != nil {
			opts.OnProgress(end, len(unmatched))
		}
	}

	summary.Duration = time.Since(start)
	log.Info("matching run complete",
		zap.Int("matched", summary.IngredientsMatched),
		zap.Int("matches_created", summary.TotalMatchesCreated),
		zap.Int("no_match", summary.IngredientsNoMatch),
		zap.Int("errors", summary.Errors),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// matchOne runs MatchAndStore for one ingredient and turns a panic into an error
func (m *IngredientMatcher) matchOne(ctx context.Context, name string, opts ComputeOptions) (matches []domain.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while matching %q: %v", name, r)
		}
	}()
	return m.MatchAndStore(ctx, name, opts.TopK, opts.MinConfidence)
}

func (m *IngredientMatcher) withDefaults(opts ComputeOptions) ComputeOptions {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = m.config.MinConfidence
	}
	if opts.TopK <= 0 {
		opts.TopK = m.config.TopK
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = m.config.BatchSize
	}
	if opts.Limit <= 0 {
		opts.Limit = m.config.UnmatchedLimit
	}
	return opts
}

// Product returns the cached catalog record behind a match
func (m *IngredientMatcher) Product(match domain.MatchResult) (domain.Product, bool) {
	products, ok := m.cache.Lookup(match.ProductName)
	if !ok {
		return domain.Product{}, false
	}
	for _, p := range products {
		if p.ID == match.ProductID {
			return p, true
		}
	}
	return domain.Product{}, false
}
