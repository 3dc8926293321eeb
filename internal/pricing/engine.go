package pricing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/catalog"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

// Engine computes line items, fulfillment options and tax for a checkout
// session. Tax failures degrade to zero and never block checkout progress.
type Engine struct {
	catalog    catalog.Catalog
	tax        TaxCalculator
	taxBreaker *gobreaker.CircuitBreaker[int64]
	taxTimeout time.Duration
	sfg        singleflight.Group // Prevents duplicate product lookups under concurrent pricing
	now        func() time.Time
}

func NewEngine(cat catalog.Catalog, tax TaxCalculator) *Engine {
	breaker := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:    "tax-calculator",
		Timeout: 30 * time.Second,
	})
	return &Engine{
		catalog:    cat,
		tax:        tax,
		taxBreaker: breaker,
		taxTimeout: 5 * time.Second,
		now:        time.Now,
	}
}

// LineItems prices each requested item against the catalog. Discounts are
// not applied at this stage, so subtotal == base_amount == total and
// per-line tax is zero; session tax is computed as a single aggregate.
func (e *Engine) LineItems(ctx context.Context, items []domain.Item) ([]domain.LineItem, error) {
	lineItems := make([]domain.LineItem, 0, len(items))

	for _, item := range items {
		v, err, _ := e.sfg.Do(item.ID, func() (interface{}, error) {
			return e.catalog.GetProduct(ctx, item.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("price item %q: %w", item.ID, err)
		}
		product := v.(*catalog.Product)

		baseAmount := product.UnitPrice * item.Quantity
		lineItems = append(lineItems, domain.LineItem{
			ID:         fmt.Sprintf("li_%s", product.Handle),
			ProductID:  product.Handle,
			Title:      product.Title,
			Subtitle:   product.Subtitle,
			Quantity:   item.Quantity,
			BaseAmount: baseAmount,
			Discount:   0,
			Subtotal:   baseAmount,
			Tax:        0,
			Total:      baseAmount,
			Currency:   product.Currency,
			ImageURL:   product.ImageURL,
		})
	}

	return lineItems, nil
}

// Tax computes the aggregate tax amount for the session. A missing address,
// an unsupported jurisdiction, a calculator error, a timeout or an open
// breaker all yield zero; failures are logged, never propagated.
func (e *Engine) Tax(ctx context.Context, lineItems []domain.LineItem, address *domain.Address) int64 {
	if address == nil {
		return 0
	}

	amount, err := e.taxBreaker.Execute(func() (int64, error) {
		taxCtx, cancel := context.WithTimeout(ctx, e.taxTimeout)
		defer cancel()
		return e.tax.Calculate(taxCtx, lineItems, address)
	})
	if err != nil {
		log.Printf("tax calculation failed, defaulting to zero: %v", err)
		return 0
	}
	if amount < 0 {
		log.Printf("tax calculator returned negative amount %d, defaulting to zero", amount)
		return 0
	}
	return amount
}
