package product

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Draft is a new product submitted through the privileged creation path.
// Validation here covers only "required non-empty" plus basic shape of the
// optional image URL; anything stricter is the server's call.
type Draft struct {
	Name        string          `validate:"required"`
	Description string          `validate:"required"`
	Brand       string          `validate:"required"`
	Category    string          `validate:"required"`
	Price       decimal.Decimal `validate:"-"`
	Stock       int             `validate:"min=0"`
	ImageURL    string          `validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Sentinel errors for draft field parsing.
var (
	ErrInvalidPrice = errors.New("price must be a decimal number")
	ErrInvalidStock = errors.New("stock must be a non-negative integer")
)

// Validate checks the draft's required fields. The returned error is a
// validator.ValidationErrors listing every failing field.
func (d Draft) Validate() error {
	if d.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return validate.Struct(d)
}

// ParseDraft builds a Draft from raw form input, parsing price as a decimal
// and stock as an integer. It does not run Validate; callers do that once the
// whole form is assembled.
func ParseDraft(name, description, brand, category, price, stock, imageURL string) (Draft, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Draft{}, ErrInvalidPrice
	}
	n, err := strconv.Atoi(stock)
	if err != nil || n < 0 {
		return Draft{}, ErrInvalidStock
	}
	return Draft{
		Name:        name,
		Description: description,
		Brand:       brand,
		Category:    category,
		Price:       p,
		Stock:       n,
		ImageURL:    imageURL,
	}, nil
}
