package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodplanner/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// ProductCache is a thread-safe in-memory index of the product catalog,
// keyed by lowercased product name. It is filled from one bulk fetch and
// refreshed only by Invalidate followed by another Load.
type ProductCache struct {
	byName   map[string][]domain.Product
	names    []string // keys in catalog order
	loaded   bool
	loadedAt time.Time
	loads    int
	mutex    sync.RWMutex
}

// NewProductCache creates an empty product cache
func NewProductCache() *ProductCache {
	return &ProductCache{
		byName: make(map[string][]domain.Product),
	}
}

// Key returns the index key for a product or ingredient name
func Key(name string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(name)))
}

// Load fetches the catalog from source unless the cache is already built.
// A failed fetch leaves the cache empty.
func (c *ProductCache) Load(ctx context.Context, source domain.CatalogSource) error {
	c.mutex.RLock()
	loaded := c.loaded
	c.mutex.RUnlock()
	if loaded {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// another caller may have finished loading while we waited for the lock
	if c.loaded {
		return nil
	}

	c.loads++
	products, err := source.FetchAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	byName := make(map[string][]domain.Product, len(products))
	names := make([]string, 0, len(products))
	for _, p := range products {
		key := Key(p.Name)
		if key == "" {
			continue
		}
		if _, seen := byName[key]; !seen {
			names = append(names, key)
		}
		byName[key] = append(byName[key], p)
	}

	c.byName = byName
	c.names = names
	c.loaded = true
	c.loadedAt = time.Now()
	return nil
}

// Lookup returns the products indexed under name
func (c *ProductCache) Lookup(name string) ([]domain.Product, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	products, ok := c.byName[Key(name)]
	return products, ok
}

// Names returns every indexed name in catalog order
func (c *ProductCache) Names() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Invalidate discards the index; the next Load fetches the catalog again
func (c *ProductCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.byName = make(map[string][]domain.Product)
	c.names = nil
	c.loaded = false
	c.loadedAt = time.Time{}
}

// Loaded reports whether the index is built
func (c *ProductCache) Loaded() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.loaded
}

// LoadedAt returns when the index was last built
func (c *ProductCache) LoadedAt() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.loadedAt
}

// Size returns the number of distinct product names (for debugging/monitoring)
func (c *ProductCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.names)
}

// Loads returns how many catalog fetches have been attempted
func (c *ProductCache) Loads() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.loads
}
