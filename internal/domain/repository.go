package domain

import "context"

// CatalogSource delivers the full product catalog in one bulk call
type CatalogSource interface {
	FetchAllProducts(ctx context.Context) ([]Product, error)
}

// MatchStore persists ingredient-to-product relationships.
// UpsertMatch must be idempotent per (ingredientName, productID).
type MatchStore interface {
	ListUnmatchedIngredients(ctx context.Context, limit int) ([]string, error)
	UpsertMatch(ctx context.Context, ingredientName, productID string, confidence float64, matchType MatchType) error
}
