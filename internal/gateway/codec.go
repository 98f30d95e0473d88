package gateway

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/cart"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/order"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
)

// decodeDecimal reads a JSON number (or numeric string) as an exact decimal,
// avoiding a float64 round trip for prices and totals.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(strings.Trim(n.String(), `"`))
}

// timeLayouts covers RFC 3339 and the zone-less ISO form the server emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int64()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = nullableStr(d)
		case "brand":
			p.Brand, err = nullableStr(d)
		case "price":
			p.Price, err = decodeDecimal(d)
		case "stock":
			p.Stock, err = d.Int()
		case "category":
			p.Category, err = nullableStr(d)
		case "imageUrl":
			p.ImageURL, err = nullableStr(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodeProducts(d *jx.Decoder) ([]product.Product, error) {
	products := []product.Product{}
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	return products, err
}

func decodeCart(d *jx.Decoder) (cart.Cart, error) {
	var c cart.Cart
	c.Items = []cart.Item{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var it cart.Item
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "id":
					it.ID, err = d.Int64()
				case "product":
					it.Product, err = decodeProduct(d)
				case "quantity":
					it.Quantity, err = d.Int()
				default:
					err = d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			c.Items = append(c.Items, it)
			return nil
		})
	})
	return c, err
}

func decodeOrder(d *jx.Decoder) (order.Order, error) {
	var o order.Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Int64()
		case "createdAt":
			o.CreatedAt, err = decodeTime(d)
		case "status":
			var s string
			s, err = d.Str()
			o.Status = order.Status(s)
		case "total":
			o.Total, err = decodeDecimal(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				var it order.Item
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "product":
						it.Product, err = decodeProduct(d)
					case "quantity":
						it.Quantity, err = d.Int()
					default:
						err = d.Skip()
					}
					return err
				}); err != nil {
					return err
				}
				o.Items = append(o.Items, it)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return o, err
}

func decodeOrders(d *jx.Decoder) ([]order.Order, error) {
	orders := []order.Order{}
	err := d.Arr(func(d *jx.Decoder) error {
		o, err := decodeOrder(d)
		if err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	})
	return orders, err
}

// nullableStr reads a string field that the server may send as null.
func nullableStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func encodeDraft(draft product.Draft) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(draft.Name)
	e.FieldStart("description")
	e.Str(draft.Description)
	e.FieldStart("brand")
	e.Str(draft.Brand)
	e.FieldStart("category")
	e.Str(draft.Category)
	e.FieldStart("price")
	e.Num(jx.Num(draft.Price.String()))
	e.FieldStart("stock")
	e.Int(draft.Stock)
	if draft.ImageURL != "" {
		e.FieldStart("imageUrl")
		e.Str(draft.ImageURL)
	}
	e.ObjEnd()
	return e.Bytes()
}
