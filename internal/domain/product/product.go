package product

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog item as served by the remote store. Read-only from the
// client's perspective: every field comes from a server response.
type Product struct {
	ID          int64
	Name        string
	Description string
	Brand       string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

// Filter is the tuple that fully determines one catalog query. Search,
// category, brand and price bounds narrow the result set; Page and PageSize
// select the slice.
type Filter struct {
	Search   string
	Category string
	Brand    string
	PriceMin decimal.Decimal
	PriceMax decimal.Decimal
	Page     int
	PageSize int
}

// TotalPages returns the number of pages needed for totalCount items at
// pageSize per page. Never less than 1, so pagination controls stay sensible
// for an empty result set.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}
