package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a purchasable catalog entry. UnitPrice is in minor currency
// units (cents).
type Product struct {
	ID        int64
	Handle    string
	Title     string
	Subtitle  string
	UnitPrice int64
	Currency  string
	ImageURL  string
}

type Catalog interface {
	GetProduct(ctx context.Context, handle string) (*Product, error)
}
