package gateway

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
)

// filterQuery maps a Filter onto the catalog endpoints' query parameters.
// Pagination parameters are included only when asked for: the count endpoint
// takes the narrowing filters but no page.
func filterQuery(f product.Filter, paged bool) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Brand != "" {
		q.Set("marca", f.Brand)
	}
	if !f.PriceMin.IsZero() {
		q.Set("precio_min", f.PriceMin.String())
	}
	if !f.PriceMax.IsZero() {
		q.Set("precio_max", f.PriceMax.String())
	}
	if paged {
		q.Set("page", strconv.Itoa(f.Page))
		q.Set("limit", strconv.Itoa(f.PageSize))
	}
	return q
}

// ListProducts fetches the page of products matching the filter.
func (g *Gateway) ListProducts(ctx context.Context, f product.Filter) ([]product.Product, error) {
	var products []product.Product
	err := g.get(ctx, "/api/products", filterQuery(f, true), func(d *jx.Decoder) error {
		var err error
		products, err = decodeProducts(d)
		return err
	})
	return products, err
}

// CountProducts fetches the total number of products matching the filter.
func (g *Gateway) CountProducts(ctx context.Context, f product.Filter) (int, error) {
	var total int
	err := g.get(ctx, "/api/products/count", filterQuery(f, false), func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "total" {
				return d.Skip()
			}
			var err error
			total, err = d.Int()
			return err
		})
	})
	return total, err
}

// GetProduct fetches a single product by ID.
func (g *Gateway) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	var p product.Product
	err := g.get(ctx, "/api/products/"+strconv.FormatInt(id, 10), nil, func(d *jx.Decoder) error {
		var err error
		p, err = decodeProduct(d)
		return err
	})
	return p, err
}

// CreateProduct submits a new product draft through the privileged write
// path. A *PrivilegeError means the caller lacks the administrator
// capability; a *ValidationError means the server rejected the draft itself.
func (g *Gateway) CreateProduct(ctx context.Context, draft product.Draft) (product.Product, error) {
	var p product.Product
	err := g.postJSON(ctx, "/api/products", encodeDraft(draft), func(d *jx.Decoder) error {
		var err error
		p, err = decodeProduct(d)
		return err
	})
	return p, err
}
