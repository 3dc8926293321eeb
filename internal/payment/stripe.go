package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProcessor charges agentic-commerce shared payment tokens by
// creating a PaymentIntent for the resolved session total. Constructed
// once at process start and injected; never a lazy global.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(apiKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Confirm:  stripe.Bool(true),
	}
	params.AddMetadata("checkout_session_id", req.SessionID)
	params.AddMetadata("protocol", "acp-draft-2024-12")
	params.AddMetadata("source", "acp-api")
	// The shared payment token param is not yet in the typed SDK surface.
	params.AddExtra("shared_payment_granted_token", req.Token)

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &ChargeResult{
				Outcome:       OutcomeDeclined,
				DeclineReason: stripeErr.Msg,
			}, nil
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return &ChargeResult{
			Outcome:         OutcomeSucceeded,
			PaymentIntentID: intent.ID,
		}, nil
	case stripe.PaymentIntentStatusRequiresAction:
		return &ChargeResult{
			Outcome:         OutcomeRequiresAction,
			PaymentIntentID: intent.ID,
			ClientSecret:    intent.ClientSecret,
		}, nil
	default:
		return &ChargeResult{
			Outcome:       OutcomeDeclined,
			DeclineReason: fmt.Sprintf("payment intent status %s", intent.Status),
		}, nil
	}
}
