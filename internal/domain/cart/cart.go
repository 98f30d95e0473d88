package cart

import (
	"github.com/shopspring/decimal"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
)

// Item is a single cart line: a product and how many of it.
type Item struct {
	ID       int64
	Product  product.Product
	Quantity int
}

// Cart is the server-tracked shopping cart. The client never computes cart
// contents locally: every mutation round-trips to the server and the returned
// snapshot replaces the whole value.
type Cart struct {
	Items []Item
}

// Empty reports whether the cart has no items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Len returns the number of cart lines.
func (c Cart) Len() int {
	return len(c.Items)
}

// Total computes the cart total as the sum of price times quantity over all
// items, rounded to two decimal places.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		total = total.Add(it.Product.Price.Mul(qty))
	}
	return total.Round(2)
}
