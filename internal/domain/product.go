package domain

// Product is a catalog entry as delivered by a CatalogSource.
// The matching core treats it as read-only.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	StoreID       string   `json:"store_id"`
	StoreName     string   `json:"store_name"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand,omitempty"`
}

// EffectivePrice returns the discount price when one applies, otherwise the list price
func (p Product) EffectivePrice() float64 {
	if p.HasDiscount() {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether the product carries a discount below its list price
func (p Product) HasDiscount() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice < p.Price
}

// Savings is the difference between list and effective price
func (p Product) Savings() float64 {
	return p.Price - p.EffectivePrice()
}
