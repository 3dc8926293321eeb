package pricing

import (
	"context"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

// TaxCalculator computes a single aggregate tax amount in minor currency
// units for a set of priced line items shipped to an address.
type TaxCalculator interface {
	Calculate(ctx context.Context, lineItems []domain.LineItem, address *domain.Address) (int64, error)
}

// stateRateBps maps US state codes to tax rates in basis points. States
// without an entry, and non-US destinations, are untaxed jurisdictions.
var stateRateBps = map[string]int64{
	"CA": 725,
	"NY": 800,
	"TX": 625,
	"WA": 650,
	"FL": 600,
	"IL": 625,
}

// RateTableCalculator is a static-rate tax calculator over the line item
// subtotals. Integer basis-point arithmetic only.
type RateTableCalculator struct{}

func NewRateTableCalculator() *RateTableCalculator {
	return &RateTableCalculator{}
}

func (c *RateTableCalculator) Calculate(_ context.Context, lineItems []domain.LineItem, address *domain.Address) (int64, error) {
	if address == nil || address.Country != "US" {
		return 0, nil
	}
	bps, ok := stateRateBps[address.State]
	if !ok {
		return 0, nil
	}

	var subtotal int64
	for _, item := range lineItems {
		subtotal += item.Subtotal
	}
	return subtotal * bps / 10000, nil
}
