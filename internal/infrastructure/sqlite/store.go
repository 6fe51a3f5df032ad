package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/foodplanner/backend/internal/domain"
)

// Store implements domain.CatalogSource and domain.MatchStore
type Store struct {
	db *DB
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// FetchAllProducts returns the full catalog ordered by product id
func (s *Store) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.brand, p.price, p.discount_price,
		       COALESCE(p.store_id, ''), COALESCE(st.name, ''), p.category
		FROM products p
		LEFT JOIN stores st ON st.id = p.store_id
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var discount sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &discount, &p.StoreID, &p.StoreName, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if discount.Valid {
			v := discount.Float64
			p.DiscountPrice = &v
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// SaveProducts inserts or updates products and their stores in one transaction
func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		var storeID sql.NullString
		if p.StoreID != "" {
			storeID = sql.NullString{String: p.StoreID, Valid: true}
			storeName := p.StoreName
			if storeName == "" {
				storeName = p.StoreID
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO stores (id, name) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name
			`, p.StoreID, storeName)
			if err != nil {
				return fmt.Errorf("failed to upsert store %s: %w", p.StoreID, err)
			}
		}

		var discount sql.NullFloat64
		if p.DiscountPrice != nil {
			discount = sql.NullFloat64{Float64: *p.DiscountPrice, Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, brand, price, discount_price, store_id, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				brand = excluded.brand,
				price = excluded.price,
				discount_price = excluded.discount_price,
				store_id = excluded.store_id,
				category = excluded.category
		`, p.ID, p.Name, p.Brand, p.Price, discount, storeID, p.Category)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// SaveIngredients records ingredient names; existing names are left untouched.
// It returns how many names were new.
func (s *Store) SaveIngredients(ctx context.Context, names []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ingredients (name) VALUES (?)`, name)
		if err != nil {
			return 0, fmt.Errorf("failed to insert ingredient %q: %w", name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingredients: %w", err)
	}
	return inserted, nil
}

// ListUnmatchedIngredients returns ingredients without any stored match, by name
func (s *Store) ListUnmatchedIngredients(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name
		FROM ingredients i
		WHERE NOT EXISTS (
			SELECT 1 FROM ingredient_product_matches m WHERE m.ingredient_name = i.name
		)
		ORDER BY i.name
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return names, nil
}

// UpsertMatch creates or refreshes the match between an ingredient and a product.
// Repeating the call with the same pair updates the row in place.
func (s *Store) UpsertMatch(ctx context.Context, ingredientName, productID string, confidence float64, matchType domain.MatchType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredient_product_matches (ingredient_name, product_id, confidence_score, match_type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ingredient_name, product_id) DO UPDATE SET
			confidence_score = excluded.confidence_score,
			match_type = excluded.match_type,
			updated_at = CURRENT_TIMESTAMP
	`, ingredientName, productID, confidence, string(matchType))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

// MatchesFor returns the stored matches of an ingredient, best first
func (s *Store) MatchesFor(ctx context.Context, ingredientName string) ([]domain.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.ingredient_name, m.product_id, COALESCE(p.name, ''), m.confidence_score, m.match_type
		FROM ingredient_product_matches m
		LEFT JOIN products p ON p.id = m.product_id
		WHERE m.ingredient_name = ?
		ORDER BY m.confidence_score DESC, m.product_id
	`, ingredientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	var matches []domain.MatchResult
	for rows.Next() {
		var m domain.MatchResult
		var matchType string
		if err := rows.Scan(&m.IngredientName, &m.ProductID, &m.ProductName, &m.ConfidenceScore, &matchType); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
		}
		m.MatchType = domain.MatchType(matchType)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return matches, nil
}
