package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/foodplanner/backend/internal/domain"
)

// MockCatalogSource is a mock implementation of domain.CatalogSource
type MockCatalogSource struct {
	products []domain.Product
	err      error
	calls    int
}

func (m *MockCatalogSource) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// storedMatch records one UpsertMatch call
type storedMatch struct {
	ingredient string
	productID  string
	confidence float64
	matchType  domain.MatchType
}

// MockMatchStore is a mock implementation of domain.MatchStore
type MockMatchStore struct {
	unmatched []string
	listError error
	// failProducts makes UpsertMatch fail for these product ids
	failProducts map[string]bool
	upserts      []storedMatch
	listLimit    int
	mu           sync.Mutex
}

func (m *MockMatchStore) ListUnmatchedIngredients(ctx context.Context, limit int) ([]string, error) {
	m.listLimit = limit
	if m.listError != nil {
		return nil, m.listError
	}
	if limit < len(m.unmatched) {
		return m.unmatched[:limit], nil
	}
	return m.unmatched, nil
}

func (m *MockMatchStore) UpsertMatch(ctx context.Context, ingredientName, productID string, confidence float64, matchType domain.MatchType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failProducts[productID] {
		return domain.ErrStoreFailure
	}
	m.upserts = append(m.upserts, storedMatch{ingredientName, productID, confidence, matchType})
	return nil
}

// panickingScorer panics for queries containing trigger
type panickingScorer struct {
	trigger string
}

func (s panickingScorer) Score(a, b string) float64 {
	if strings.Contains(a, s.trigger) {
		panic("scorer exploded")
	}
	return TokenSortRatio{}.Score(a, b)
}

func price(v float64) *float64 {
	return &v
}

func testCatalog() *MockCatalogSource {
	return &MockCatalogSource{products: []domain.Product{
		{ID: "p1", Name: "Soy Sauce", Price: 25, StoreID: "netto", StoreName: "Netto", Category: "Condiments"},
		{ID: "p2", Name: "Sauce Soy Dark", Price: 30, StoreID: "bilka", StoreName: "Bilka", Category: "Condiments"},
		{ID: "p3", Name: "Eggplant", Price: 12, StoreID: "netto", StoreName: "Netto", Category: "Vegetables"},
		{ID: "p4", Name: "Chili flakes from the mexican highlands premium pack", Price: 20, StoreID: "netto", StoreName: "Netto"},
		{ID: "p5", Name: "Onion", Price: 8, DiscountPrice: price(6), StoreID: "netto", StoreName: "Netto", Category: "Vegetables"},
		{ID: "p6", Name: "Onion", Price: 5, StoreID: "bilka", StoreName: "Bilka", Category: "Vegetables"},
		{ID: "p7", Name: "Onion", Price: 7, StoreID: "rema", StoreName: "Rema 1000", Category: "Vegetables"},
		{ID: "p8", Name: "Hvidløg", Price: 10, StoreID: "rema", StoreName: "Rema 1000", Category: "Vegetables"},
		{ID: "p9", Name: "Whole Milk", Price: 11, StoreID: "netto", StoreName: "Netto", Category: "Dairy"},
	}}
}
