package payment

import "context"

type Outcome string

const (
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeRequiresAction Outcome = "requires_action"
	OutcomeDeclined       Outcome = "declined"
)

type ChargeRequest struct {
	SessionID string
	Amount    int64
	Currency  string
	Token     string
}

type ChargeResult struct {
	Outcome         Outcome
	PaymentIntentID string
	ClientSecret    string
	DeclineReason   string
}

// Processor exchanges an opaque payment token for a charge against the
// session total. Declines are reported in the result; an error return
// means the attempt itself failed (network, processor outage, timeout).
type Processor interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
}
