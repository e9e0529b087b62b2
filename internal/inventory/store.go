package inventory

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound   = errors.New("product not found in inventory")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store is the stock collaborator the cart and checkout flows depend on.
// Callers must treat any error from CheckStock as "unavailable" (fail
// closed): a stock check that cannot complete never unlocks a mutation.
type Store interface {
	// CheckStock reports whether the (product, color) pair can be sold at
	// all. Color may be empty for products without color-level stock.
	CheckStock(ctx context.Context, productID, color string) (bool, error)

	// DecreaseStock permanently deducts quantity from the (product, color)
	// pair, failing without side effects when not enough is available.
	DecreaseStock(ctx context.Context, productID string, quantity int, color string) error
}

// Seeder is implemented by stores that can be primed from catalog data.
type Seeder interface {
	SetStock(productID, color string, quantity int)
	SetUnlimited(productID, color string)
}

// Seed primes a store from catalog products: one record per color variant,
// plus a base record for the product itself. Products flagged in-stock
// without a numeric quantity are treated as unlimited.
func Seed(s Seeder, products []domain.Product) {
	for _, p := range products {
		if p.StockQuantity != nil {
			s.SetStock(p.ID, "", *p.StockQuantity)
		} else if p.InStock {
			s.SetUnlimited(p.ID, "")
		} else {
			s.SetStock(p.ID, "", 0)
		}

		for _, v := range p.Variants {
			if v.StockQuantity != nil {
				s.SetStock(p.ID, v.Color, *v.StockQuantity)
			} else if p.InStock {
				s.SetUnlimited(p.ID, v.Color)
			} else {
				s.SetStock(p.ID, v.Color, 0)
			}
		}
	}
}
