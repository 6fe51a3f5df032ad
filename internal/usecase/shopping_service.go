package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/foodplanner/backend/internal/domain"
	"github.com/foodplanner/backend/internal/normalize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Shopping list matching parameters
const (
	shoppingTopK          = 5
	shoppingMinConfidence = 0.5
	maxAlternatives       = 3
	defaultServings       = 2.0   // recipes are assumed to serve two
	missingPrice          = 999.0 // ranks unpriced products last
	uncategorized         = "Other"
)

// RecipeIngredients is the ingredient list of one recipe
type RecipeIngredients struct {
	RecipeID    string                             `json:"recipe_id" yaml:"recipe_id"`
	Ingredients []normalize.RawIngredientReference `json:"ingredients" yaml:"ingredients"`
}

// ShoppingListRequest describes the recipes to shop for
type ShoppingListRequest struct {
	Recipes         []RecipeIngredients `json:"recipes" yaml:"recipes"`
	PeopleCount     int                 `json:"people_count" yaml:"people_count"`
	PreferredStores []string            `json:"preferred_stores,omitempty" yaml:"preferred_stores"`
}

// ShoppingItem is one line of a shopping list, with the product chosen for it
type ShoppingItem struct {
	IngredientName string   `json:"ingredient_name"`
	NormalizedName string   `json:"normalized_name"`
	Quantity       string   `json:"quantity"`
	Unit           string   `json:"unit"`
	RecipeSources  []string `json:"recipe_sources"`

	ProductID     string   `json:"product_id,omitempty"`
	ProductName   string   `json:"product_name,omitempty"`
	ProductBrand  string   `json:"product_brand,omitempty"`
	StoreID       string   `json:"store_id,omitempty"`
	StoreName     string   `json:"store_name,omitempty"`
	Category      string   `json:"category"`
	Price         float64  `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Confidence    float64  `json:"match_confidence,omitempty"`
	Alternatives  []string `json:"alternative_products,omitempty"`
}

// Matched reports whether a product was chosen
func (i ShoppingItem) Matched() bool {
	return i.ProductID != ""
}

// EffectivePrice is the price paid for the chosen product
func (i ShoppingItem) EffectivePrice() float64 {
	if i.DiscountPrice != nil && *i.DiscountPrice < i.Price {
		return *i.DiscountPrice
	}
	return i.Price
}

// Savings is what the discount saves on this line
func (i ShoppingItem) Savings() float64 {
	return i.Price - i.EffectivePrice()
}

// ShoppingList is the rendered result of a shopping list request
type ShoppingList struct {
	ID             string                    `json:"id"`
	PeopleCount    int                       `json:"people_count"`
	Items          []ShoppingItem            `json:"items"`
	TotalCost      float64                   `json:"total_cost"`
	TotalSavings   float64                   `json:"total_savings"`
	MatchedCount   int                       `json:"matched_count"`
	UnmatchedCount int                       `json:"unmatched_count"`
	ByCategory     map[string][]ShoppingItem `json:"by_category"`
	ByStore        map[string][]ShoppingItem `json:"by_store"`
}

// productMatcher is the part of IngredientMatcher the shopping list needs
type productMatcher interface {
	FindMatches(ctx context.Context, ingredientName string, topK int, minConfidence float64) ([]domain.MatchResult, error)
	Product(match domain.MatchResult) (domain.Product, bool)
}

// ShoppingListService turns recipes into a priced shopping list
type ShoppingListService struct {
	matcher    productMatcher
	aggregator *normalize.Aggregator
	logger     *zap.Logger
}

// NewShoppingListService creates a new shopping list service
func NewShoppingListService(matcher productMatcher, logger *zap.Logger) *ShoppingListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingListService{
		matcher:    matcher,
		aggregator: normalize.NewAggregator(logger),
		logger:     logger.Named("shopping"),
	}
}

// Aggregate sums the ingredients of all recipes and scales them for the
// number of people
func (s *ShoppingListService) Aggregate(req ShoppingListRequest) *normalize.Aggregation {
	plan := normalize.NewAggregation()
	for _, recipe := range req.Recipes {
		s.aggregator.Merge(plan, s.aggregator.AggregateIngredients(recipe.Ingredients, recipe.RecipeID))
	}

	if req.PeopleCount > 1 {
		factor := float64(req.PeopleCount) / defaultServings
		for _, item := range plan.Items() {
			item.TotalQuantity = item.TotalQuantity.Scale(factor)
			for i := range item.Dropped {
				item.Dropped[i] = item.Dropped[i].Scale(factor)
			}
		}
	}
	return plan
}

// Generate builds a shopping list. A product lookup that fails leaves its
// line unmatched instead of failing the list.
func (s *ShoppingListService) Generate(ctx context.Context, req ShoppingListRequest) (*ShoppingList, error) {
	if len(req.Recipes) == 0 {
		return nil, fmt.Errorf("%w: at least one recipe is required", domain.ErrInvalidRequest)
	}
	if req.PeopleCount <= 0 {
		req.PeopleCount = int(defaultServings)
	}

	list := &ShoppingList{
		ID:          uuid.NewString(),
		PeopleCount: req.PeopleCount,
		ByCategory:  make(map[string][]ShoppingItem),
		ByStore:     make(map[string][]ShoppingItem),
	}

	for _, ingredient := range s.Aggregate(req).Items() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := s.buildItem(ctx, ingredient, req.PreferredStores)
		list.add(item)
	}

	return list, nil
}

func (s *ShoppingListService) buildItem(ctx context.Context, ingredient *normalize.AggregatedIngredient, preferredStores []string) ShoppingItem {
	quantity, unit := ingredient.TotalQuantity.ToDisplayString()
	item := ShoppingItem{
		IngredientName: ingredient.Name,
		NormalizedName: ingredient.NormalizedName,
		Quantity:       quantity,
		Unit:           unit,
		RecipeSources:  ingredient.RecipeSources,
		Category:       uncategorized,
	}

	matches, err := s.matcher.FindMatches(ctx, ingredient.Name, shoppingTopK, shoppingMinConfidence)
	if err != nil {
		s.logger.Warn("failed to match product", zap.String("ingredient", ingredient.Name), zap.Error(err))
		return item
	}

	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		if p, ok := s.matcher.Product(m); ok {
			candidates = append(candidates, candidate{product: p, confidence: m.ConfidenceScore})
		}
	}
	if len(candidates) == 0 {
		return item
	}

	ranked := rankCandidates(candidates, preferredStores)
	best := ranked[0]

	item.ProductID = best.product.ID
	item.ProductName = best.product.Name
	item.ProductBrand = best.product.Brand
	item.StoreID = best.product.StoreID
	item.StoreName = best.product.StoreName
	item.Price = best.product.Price
	item.DiscountPrice = best.product.DiscountPrice
	item.Confidence = best.confidence
	if best.product.Category != "" {
		item.Category = best.product.Category
	}

	for _, alt := range ranked[1:] {
		if len(item.Alternatives) == maxAlternatives {
			break
		}
		item.Alternatives = append(item.Alternatives, alt.product.ID)
	}
	return item
}

func (l *ShoppingList) add(item ShoppingItem) {
	l.Items = append(l.Items, item)
	l.ByCategory[item.Category] = append(l.ByCategory[item.Category], item)

	if !item.Matched() {
		l.UnmatchedCount++
		return
	}

	l.MatchedCount++
	l.TotalCost += item.EffectivePrice()
	l.TotalSavings += item.Savings()
	if item.StoreName != "" {
		l.ByStore[item.StoreName] = append(l.ByStore[item.StoreName], item)
	}
}

// candidate is a matched product with the confidence of its match
type candidate struct {
	product    domain.Product
	confidence float64
}

// rankCandidates orders products by preferred store, then active discount,
// then lowest effective price, then match confidence
func rankCandidates(candidates []candidate, preferredStores []string) []candidate {
	preferred := make(map[string]bool, len(preferredStores))
	for _, id := range preferredStores {
		preferred[id] = true
	}

	price := func(p domain.Product) float64 {
		if v := p.EffectivePrice(); v > 0 {
			return v
		}
		return missingPrice
	}

	ranked := append([]candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if pa, pb := preferred[a.product.StoreID], preferred[b.product.StoreID]; pa != pb {
			return pa
		}
		if da, db := a.product.HasDiscount(), b.product.HasDiscount(); da != db {
			return da
		}
		if pa, pb := price(a.product), price(b.product); pa != pb {
			return pa < pb
		}
		return a.confidence > b.confidence
	})
	return ranked
}
