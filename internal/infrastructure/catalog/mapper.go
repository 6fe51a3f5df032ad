package catalog

import (
	"strings"

	"github.com/foodplanner/backend/internal/domain"
)

// storeDTO is the store block of a catalog product
type storeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// productDTO is a product as served by the catalog API
type productDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price"`
	Category      string    `json:"category"`
	Store         *storeDTO `json:"store"`
}

// productPage is one page of GET /v1/products
type productPage struct {
	Products []productDTO `json:"products"`
	NextPage int          `json:"next_page"`
}

// MapProduct converts a catalog DTO to a domain product.
// It reports false for entries without an id or a name.
func MapProduct(dto productDTO) (domain.Product, bool) {
	id := strings.TrimSpace(dto.ID)
	name := strings.TrimSpace(dto.Name)
	if id == "" || name == "" {
		return domain.Product{}, false
	}

	p := domain.Product{
		ID:       id,
		Name:     name,
		Brand:    strings.TrimSpace(dto.Brand),
		Price:    dto.Price,
		Category: strings.TrimSpace(dto.Category),
	}

	// a zero or negative discount is treated as no discount
	if dto.DiscountPrice != nil && *dto.DiscountPrice > 0 {
		v := *dto.DiscountPrice
		p.DiscountPrice = &v
	}

	if dto.Store != nil {
		p.StoreID = dto.Store.ID
		p.StoreName = dto.Store.Name
	}

	return p, true
}

// mapProducts converts a page of DTOs, dropping invalid entries
func mapProducts(dtos []productDTO) ([]domain.Product, int) {
	products := make([]domain.Product, 0, len(dtos))
	skipped := 0
	for _, dto := range dtos {
		p, ok := MapProduct(dto)
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}
	return products, skipped
}
