package domain

// All monetary amounts are integers in minor currency units (cents).
// Timestamps are Unix milliseconds.

type Item struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type Address struct {
	Name        string `json:"name"`
	LineOne     string `json:"line_one"`
	LineTwo     string `json:"line_two,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type Buyer struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type LineItem struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Quantity   int64  `json:"quantity"`
	BaseAmount int64  `json:"base_amount"`
	Discount   int64  `json:"discount"`
	Subtotal   int64  `json:"subtotal"`
	Tax        int64  `json:"tax"`
	Total      int64  `json:"total"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"image_url,omitempty"`
}

type CarrierInfo struct {
	Name              string `json:"name"`
	TrackingAvailable bool   `json:"tracking_available"`
}

type FulfillmentOption struct {
	Type                 string       `json:"type"`
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Subtitle             string       `json:"subtitle,omitempty"`
	CarrierInfo          *CarrierInfo `json:"carrier_info,omitempty"`
	EarliestDeliveryTime string       `json:"earliest_delivery_time,omitempty"`
	LatestDeliveryTime   string       `json:"latest_delivery_time,omitempty"`
	Subtotal             int64        `json:"subtotal"`
	Tax                  int64        `json:"tax"`
	Total                int64        `json:"total"`
}

type TotalType string

const (
	TotalTypeItemsBaseAmount TotalType = "items_base_amount"
	TotalTypeSubtotal        TotalType = "subtotal"
	TotalTypeDiscount        TotalType = "discount"
	TotalTypeFulfillment     TotalType = "fulfillment"
	TotalTypeTax             TotalType = "tax"
	TotalTypeTotal           TotalType = "total"
)

type Total struct {
	Type        TotalType `json:"type"`
	DisplayText string    `json:"display_text,omitempty"`
	Amount      int64     `json:"amount"`
}

// CheckoutSession is the aggregate root of the checkout lifecycle. It is
// only ever mutated by the lifecycle service and persisted through the
// session store; Version is the compare-and-swap token for store writes.
type CheckoutSession struct {
	ID                  string              `json:"id"`
	Status              Status              `json:"status"`
	Currency            string              `json:"currency"`
	Items               []Item              `json:"items"`
	FulfillmentAddress  *Address            `json:"fulfillment_address,omitempty"`
	FulfillmentOptionID string              `json:"fulfillment_option_id,omitempty"`
	Buyer               *Buyer              `json:"buyer,omitempty"`
	LineItems           []LineItem          `json:"line_items"`
	FulfillmentOptions  []FulfillmentOption `json:"fulfillment_options"`
	Totals              []Total             `json:"totals"`
	CreatedAt           int64               `json:"created_at"`
	UpdatedAt           int64               `json:"updated_at"`
	ExpiresAt           int64               `json:"expires_at"`
	CancellationReason  string              `json:"cancellation_reason,omitempty"`
	CanceledAt          int64               `json:"canceled_at,omitempty"`
	PaymentIntentID     string              `json:"payment_intent_id,omitempty"`
	CompletedAt         int64               `json:"completed_at,omitempty"`
	Version             int64               `json:"version"`
}

// Total returns the single amount-to-charge entry, if present.
func (s *CheckoutSession) Total() (int64, bool) {
	for _, t := range s.Totals {
		if t.Type == TotalTypeTotal {
			return t.Amount, true
		}
	}
	return 0, false
}

// SelectedFulfillmentOption resolves FulfillmentOptionID against the
// computed option set.
func (s *CheckoutSession) SelectedFulfillmentOption() (*FulfillmentOption, bool) {
	if s.FulfillmentOptionID == "" {
		return nil, false
	}
	for i := range s.FulfillmentOptions {
		if s.FulfillmentOptions[i].ID == s.FulfillmentOptionID {
			return &s.FulfillmentOptions[i], true
		}
	}
	return nil, false
}
