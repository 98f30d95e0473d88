package gateway

import (
	"context"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/order"
)

// PlaceOrder creates an order from the current server-side cart and returns
// it. The server consumes the cart on success.
func (g *Gateway) PlaceOrder(ctx context.Context) (order.Order, error) {
	var o order.Order
	err := g.postJSON(ctx, "/api/orders", nil, func(d *jx.Decoder) error {
		var err error
		o, err = decodeOrder(d)
		return err
	})
	return o, err
}

// Orders fetches the order history in the server's ordering (newest first).
func (g *Gateway) Orders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := g.get(ctx, "/api/orders", nil, func(d *jx.Decoder) error {
		var err error
		orders, err = decodeOrders(d)
		return err
	})
	return orders, err
}

// GetOrder fetches a single order by ID. Requesting another user's order
// yields a *PrivilegeError.
func (g *Gateway) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	var o order.Order
	err := g.get(ctx, "/api/orders/"+strconv.FormatInt(id, 10), nil, func(d *jx.Decoder) error {
		var err error
		o, err = decodeOrder(d)
		return err
	})
	return o, err
}
