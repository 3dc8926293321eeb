package pricing

import (
	"time"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

type shippingRate struct {
	id         string
	title      string
	subtitle   string
	carrier    string
	minDays    int
	maxDays    int
	amount     int64
	trackingOK bool
}

// Country-code-driven rate table. Countries without an entry get no
// options, which callers must treat as a valid state, not a failure.
var shippingRates = map[string][]shippingRate{
	"US": {
		{id: "us_standard", title: "Standard Shipping", subtitle: "3-7 business days", carrier: "USPS", minDays: 3, maxDays: 7, amount: 795, trackingOK: true},
		{id: "us_expedited", title: "Expedited Shipping", subtitle: "2-3 business days", carrier: "FedEx", minDays: 2, maxDays: 3, amount: 1595, trackingOK: true},
	},
	"CA": {
		{id: "ca_standard", title: "International Shipping", subtitle: "7-14 business days", carrier: "USPS", minDays: 7, maxDays: 14, amount: 1295, trackingOK: true},
	},
}

// ShippingOptions returns the ranked fulfillment options for an address.
// A nil address or an unrecognized country yields an empty slice.
func (e *Engine) ShippingOptions(address *domain.Address) []domain.FulfillmentOption {
	if address == nil {
		return []domain.FulfillmentOption{}
	}

	rates, ok := shippingRates[address.Country]
	if !ok {
		return []domain.FulfillmentOption{}
	}

	now := e.now()
	options := make([]domain.FulfillmentOption, 0, len(rates))
	for _, rate := range rates {
		options = append(options, domain.FulfillmentOption{
			Type:     "shipping",
			ID:       rate.id,
			Title:    rate.title,
			Subtitle: rate.subtitle,
			CarrierInfo: &domain.CarrierInfo{
				Name:              rate.carrier,
				TrackingAvailable: rate.trackingOK,
			},
			EarliestDeliveryTime: now.AddDate(0, 0, rate.minDays).Format(time.RFC3339),
			LatestDeliveryTime:   now.AddDate(0, 0, rate.maxDays).Format(time.RFC3339),
			Subtotal:             rate.amount,
			Tax:                  0,
			Total:                rate.amount,
		})
	}
	return options
}
