package catalog

import "github.com/adarsh180/accidentaware/internal/entity"

// The helmet line is a fixed, versioned product list shipped with the app.
// Prices are paise. Cart and checkout always resolve prices through here so
// a client can never supply its own amount.

var products = []entity.Product{
	{ID: "basic-1-v3", Name: "Urban Rider Basic", PriceCents: 59900, Category: "basic", StockStatus: "In Stock"},
	{ID: "basic-2-v3", Name: "City Commuter", PriceCents: 79900, Category: "basic", StockStatus: "In Stock"},
	{ID: "basic-3", Name: "Road Guardian", PriceCents: 89900, Category: "basic", StockStatus: "In Stock"},
	{ID: "standard-1", Name: "Highway Cruiser", PriceCents: 129900, Category: "standard", StockStatus: "In Stock"},
	{ID: "standard-2", Name: "Trail Blazer", PriceCents: 149900, Category: "standard", StockStatus: "Low Stock"},
	{ID: "premium-1", Name: "Carbon Pro X", PriceCents: 249900, Category: "premium", StockStatus: "In Stock"},
	{ID: "premium-2", Name: "Apex Shield", PriceCents: 299900, Category: "premium", StockStatus: "In Stock"},
	{ID: "smart-1", Name: "AccidentAware Sense", PriceCents: 449900, Category: "smart", StockStatus: "In Stock"},
	{ID: "smart-2", Name: "AccidentAware Sense Pro", PriceCents: 549900, Category: "smart", StockStatus: "Low Stock"},
}

func All() []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}

func ByID(id string) (entity.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}
