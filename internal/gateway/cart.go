package gateway

import (
	"context"

	"github.com/go-faster/jx"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/cart"
)

// Cart fetches the current server-side cart snapshot.
func (g *Gateway) Cart(ctx context.Context) (cart.Cart, error) {
	var c cart.Cart
	err := g.get(ctx, "/api/cart", nil, func(d *jx.Decoder) error {
		var err error
		c, err = decodeCart(d)
		return err
	})
	return c, err
}

// AddItem asks the server to add quantity units of a product to the cart and
// returns the updated snapshot. Insufficient stock comes back as a
// *ValidationError; the caller keeps its previous cart state in that case.
func (g *Gateway) AddItem(ctx context.Context, productID int64, quantity int) (cart.Cart, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("productId")
	e.Int64(productID)
	e.FieldStart("quantity")
	e.Int(quantity)
	e.ObjEnd()

	var c cart.Cart
	err := g.postJSON(ctx, "/api/cart/add", e.Bytes(), func(d *jx.Decoder) error {
		var err error
		c, err = decodeCart(d)
		return err
	})
	return c, err
}
