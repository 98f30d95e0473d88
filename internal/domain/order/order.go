package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
)

// Status is the server-assigned lifecycle state of an order. Values are
// passed through as the server spells them.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusPaid      Status = "pagado"
	StatusShipped   Status = "enviado"
	StatusDelivered Status = "entregado"
	StatusCancelled Status = "cancelado"
)

// Item is one order line as recorded at purchase time.
type Item struct {
	Product  product.Product
	Quantity int
}

// Order is a completed purchase. Created server-side on checkout; immutable
// from the client afterward except by re-fetch.
type Order struct {
	ID        int64
	CreatedAt time.Time
	Status    Status
	Items     []Item
	Total     decimal.Decimal
}
