package pricing

import (
	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

// Totals rebuilds the session totals from scratch. It is never patched
// incrementally: any change to items, address or fulfillment selection
// goes through a full rebuild so totals cannot drift from their inputs.
// Exactly one entry has type "total".
func Totals(lineItems []domain.LineItem, options []domain.FulfillmentOption, selectedOptionID string, tax int64) []domain.Total {
	var itemsBase, subtotal int64
	for _, item := range lineItems {
		itemsBase += item.BaseAmount
		subtotal += item.Subtotal
	}

	totals := []domain.Total{
		{Type: domain.TotalTypeItemsBaseAmount, DisplayText: "Items", Amount: itemsBase},
		{Type: domain.TotalTypeSubtotal, DisplayText: "Subtotal", Amount: subtotal},
	}

	var fulfillment int64
	if selectedOptionID != "" {
		for _, opt := range options {
			if opt.ID == selectedOptionID {
				fulfillment = opt.Total
				totals = append(totals, domain.Total{
					Type:        domain.TotalTypeFulfillment,
					DisplayText: opt.Title,
					Amount:      fulfillment,
				})
				break
			}
		}
	}

	if tax > 0 {
		totals = append(totals, domain.Total{
			Type:        domain.TotalTypeTax,
			DisplayText: "Tax",
			Amount:      tax,
		})
	}

	totals = append(totals, domain.Total{
		Type:        domain.TotalTypeTotal,
		DisplayText: "Total",
		Amount:      subtotal + fulfillment + tax,
	})

	return totals
}
