package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_HappyPath(t *testing.T) {
	assert.True(t, CanTransitionTo(StatusNotReadyForPayment, StatusReadyForPayment))
	assert.True(t, CanTransitionTo(StatusReadyForPayment, StatusInProgress))
	assert.True(t, CanTransitionTo(StatusInProgress, StatusCompleted))
}

func TestCanTransitionTo_PaymentRollback(t *testing.T) {
	assert.True(t, CanTransitionTo(StatusInProgress, StatusReadyForPayment))
}

func TestCanTransitionTo_Cancellation(t *testing.T) {
	assert.True(t, CanTransitionTo(StatusNotReadyForPayment, StatusCanceled))
	assert.True(t, CanTransitionTo(StatusReadyForPayment, StatusCanceled))

	// Cancel while a payment attempt is outstanding is disallowed.
	assert.False(t, CanTransitionTo(StatusInProgress, StatusCanceled))
}

func TestCanTransitionTo_NoSkippingStates(t *testing.T) {
	assert.False(t, CanTransitionTo(StatusNotReadyForPayment, StatusInProgress))
	assert.False(t, CanTransitionTo(StatusNotReadyForPayment, StatusCompleted))
	assert.False(t, CanTransitionTo(StatusReadyForPayment, StatusCompleted))
}

func TestCanTransitionTo_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCanceled} {
		for _, to := range []Status{StatusNotReadyForPayment, StatusReadyForPayment, StatusInProgress, StatusCompleted, StatusCanceled} {
			assert.False(t, CanTransitionTo(from, to), "%s -> %s should be invalid", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusNotReadyForPayment.IsTerminal())
	assert.False(t, StatusReadyForPayment.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestSelectedFulfillmentOption(t *testing.T) {
	session := &CheckoutSession{
		FulfillmentOptions: []FulfillmentOption{
			{ID: "us_standard", Total: 795},
			{ID: "us_expedited", Total: 1595},
		},
	}

	_, ok := session.SelectedFulfillmentOption()
	assert.False(t, ok)

	session.FulfillmentOptionID = "us_expedited"
	opt, ok := session.SelectedFulfillmentOption()
	assert.True(t, ok)
	assert.Equal(t, int64(1595), opt.Total)

	session.FulfillmentOptionID = "nonexistent"
	_, ok = session.SelectedFulfillmentOption()
	assert.False(t, ok)
}

func TestTotal(t *testing.T) {
	session := &CheckoutSession{
		Totals: []Total{
			{Type: TotalTypeItemsBaseAmount, Amount: 4000},
			{Type: TotalTypeSubtotal, Amount: 4000},
			{Type: TotalTypeTotal, Amount: 4795},
		},
	}

	amount, ok := session.Total()
	assert.True(t, ok)
	assert.Equal(t, int64(4795), amount)

	_, ok = (&CheckoutSession{}).Total()
	assert.False(t, ok)
}
