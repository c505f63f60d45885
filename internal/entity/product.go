package entity

// Product is read-only catalog data. The cart references products by id and
// never mutates them; prices are minor currency units.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	Category    string `json:"category"`
	StockStatus string `json:"stockStatus"`
}
